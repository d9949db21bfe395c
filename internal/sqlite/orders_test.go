package sqlite

import (
	"errors"
	"testing"
	"time"

	"github.com/mesh-intelligence/waybill/pkg/types"
)

func TestCreateAndGetOrder(t *testing.T) {
	s := newTestStore(t)

	in := types.OrderInput{
		ClientName:      "Mari Olsen",
		ArticleName:     "Standing Desk",
		Phone:           "555-0199",
		City:            "Trondheim",
		Address:         "Elvegata 3",
		DeliveryCompany: " acme ",
		DeliveryDate:    "2026-09-20",
		Description:     "Leave at the back door",
	}

	id, err := s.CreateOrder(in)
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if id <= 0 {
		t.Fatalf("id = %d, want positive", id)
	}

	order, err := s.GetOrder(id)
	if err != nil {
		t.Fatalf("GetOrder failed: %v", err)
	}
	if order.ClientName != in.ClientName || order.ArticleName != in.ArticleName ||
		order.Phone != in.Phone || order.City != in.City || order.Address != in.Address {
		t.Errorf("business fields do not round-trip: %+v", order)
	}
	if order.DeliveryCompany != "acme" {
		t.Errorf("company = %q, want trimmed canonical %q", order.DeliveryCompany, "acme")
	}
	if order.DeliveryCompanyID == nil {
		t.Error("company reference not set")
	}
	if order.Done {
		t.Error("new order must start not done")
	}
	if order.CreatedAt.IsZero() {
		t.Error("created_at not assigned")
	}
	if order.CreatedAt.Location() != time.UTC {
		t.Errorf("created_at location = %v, want UTC", order.CreatedAt.Location())
	}

	// A second order with different casing resolves to the same company.
	in.DeliveryCompany = "ACME"
	id2, err := s.CreateOrder(in)
	if err != nil {
		t.Fatalf("second CreateOrder failed: %v", err)
	}
	order2, err := s.GetOrder(id2)
	if err != nil {
		t.Fatalf("GetOrder failed: %v", err)
	}
	if *order2.DeliveryCompanyID != *order.DeliveryCompanyID {
		t.Errorf("company ids differ: %d vs %d", *order2.DeliveryCompanyID, *order.DeliveryCompanyID)
	}
	if order2.DeliveryCompany != "acme" {
		t.Errorf("company = %q, want first-seen casing %q", order2.DeliveryCompany, "acme")
	}
}

func TestGetOrder_NotFound(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.GetOrder(42); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateOrder_BlankCompany(t *testing.T) {
	s := newTestStore(t)

	in := testOrderInput("Chair")
	in.DeliveryCompany = "  "
	if _, err := s.CreateOrder(in); !errors.Is(err, types.ErrInvalidCompanyName) {
		t.Errorf("expected ErrInvalidCompanyName, got %v", err)
	}

	// The failed create must not leave a partial row behind.
	summaries, err := s.ListOrders()
	if err != nil {
		t.Fatalf("ListOrders failed: %v", err)
	}
	if len(summaries) != 0 {
		t.Errorf("orders = %d, want 0", len(summaries))
	}
}

func TestUpdateOrder_FullReplace(t *testing.T) {
	s := newTestStore(t)

	id, err := s.CreateOrder(testOrderInput("Lamp"))
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if err := s.SetOrderDone(id, true); err != nil {
		t.Fatalf("SetOrderDone failed: %v", err)
	}
	before, err := s.GetOrder(id)
	if err != nil {
		t.Fatalf("GetOrder failed: %v", err)
	}

	updated := types.OrderInput{
		ClientName:      "New Client",
		ArticleName:     "Bookshelf",
		Phone:           "555-0111",
		City:            "Stavanger",
		Address:         "Strandkaien 7",
		DeliveryCompany: "Nordic Freight",
		DeliveryDate:    "2026-10-01",
		Description:     "Third floor",
	}
	if err := s.UpdateOrder(id, updated); err != nil {
		t.Fatalf("UpdateOrder failed: %v", err)
	}

	after, err := s.GetOrder(id)
	if err != nil {
		t.Fatalf("GetOrder failed: %v", err)
	}
	if after.ArticleName != "Bookshelf" || after.DeliveryCompany != "Nordic Freight" {
		t.Errorf("update did not replace fields: %+v", after)
	}
	// The completion flag and creation timestamp are outside the
	// update's reach.
	if !after.Done {
		t.Error("update must not clear the done flag")
	}
	if !after.CreatedAt.Equal(before.CreatedAt) {
		t.Errorf("created_at changed: %v -> %v", before.CreatedAt, after.CreatedAt)
	}

	if err := s.UpdateOrder(9999, updated); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSetOrderDone(t *testing.T) {
	s := newTestStore(t)

	id, err := s.CreateOrder(testOrderInput("Mirror"))
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	if err := s.SetOrderDone(id, true); err != nil {
		t.Fatalf("SetOrderDone failed: %v", err)
	}
	order, err := s.GetOrder(id)
	if err != nil {
		t.Fatalf("GetOrder failed: %v", err)
	}
	if !order.Done {
		t.Error("done flag not set")
	}

	if err := s.SetOrderDone(id, false); err != nil {
		t.Fatalf("SetOrderDone(false) failed: %v", err)
	}
	if err := s.SetOrderDone(9999, true); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteOrder_CascadesToOpened(t *testing.T) {
	s := newTestStore(t)

	var ids []int64
	for _, article := range []string{"A", "B", "C"} {
		id, err := s.CreateOrder(testOrderInput(article))
		if err != nil {
			t.Fatalf("CreateOrder failed: %v", err)
		}
		if err := s.OpenOrder(id); err != nil {
			t.Fatalf("OpenOrder failed: %v", err)
		}
		ids = append(ids, id)
	}

	if err := s.DeleteOrder(ids[1]); err != nil {
		t.Fatalf("DeleteOrder failed: %v", err)
	}
	if _, err := s.GetOrder(ids[1]); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("deleted order still readable: %v", err)
	}

	entries, err := s.ListOpenedOrders()
	if err != nil {
		t.Fatalf("ListOpenedOrders failed: %v", err)
	}
	assertDensePositions(t, entries)
	if len(entries) != 2 {
		t.Fatalf("opened entries = %d, want 2", len(entries))
	}
	if entries[0].OrderID != ids[0] || entries[1].OrderID != ids[2] {
		t.Errorf("relative order not preserved: %+v", entries)
	}

	if err := s.DeleteOrder(9999); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListOrders_Ordering(t *testing.T) {
	s := newTestStore(t)

	var ids []int64
	for _, article := range []string{"First", "Second", "Third"} {
		id, err := s.CreateOrder(testOrderInput(article))
		if err != nil {
			t.Fatalf("CreateOrder failed: %v", err)
		}
		ids = append(ids, id)
	}
	// Force identical timestamps so only the id tie-break orders them.
	if _, err := s.db.Exec(`UPDATE orders SET created_at = '2026-08-01T10:00:00.000Z'`); err != nil {
		t.Fatalf("pinning created_at: %v", err)
	}

	summaries, err := s.ListOrders()
	if err != nil {
		t.Fatalf("ListOrders failed: %v", err)
	}
	if len(summaries) != 3 {
		t.Fatalf("summaries = %d, want 3", len(summaries))
	}
	for i, want := range []int64{ids[2], ids[1], ids[0]} {
		if summaries[i].ID != want {
			t.Errorf("summaries[%d].ID = %d, want %d", i, summaries[i].ID, want)
		}
	}
}

func TestSearchArticleNames(t *testing.T) {
	s := newTestStore(t)

	seed := []string{"Oak Table", "Oak Table", "Oak Table", "Oak Chair", "Oak Chair", "Pine Table"}
	for _, article := range seed {
		if _, err := s.CreateOrder(testOrderInput(article)); err != nil {
			t.Fatalf("CreateOrder failed: %v", err)
		}
	}

	names, err := s.SearchArticleNames("oak", 10)
	if err != nil {
		t.Fatalf("SearchArticleNames failed: %v", err)
	}
	want := []string{"Oak Table", "Oak Chair"} // frequency descending
	if len(names) != len(want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}

	// The match is a substring match, so "table" hits names where it
	// appears after the start.
	names, err = s.SearchArticleNames("table", 10)
	if err != nil {
		t.Fatalf("SearchArticleNames failed: %v", err)
	}
	want = []string{"Oak Table", "Pine Table"}
	if len(names) != len(want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}

	// Limit clamps to at least one result row.
	names, err = s.SearchArticleNames("oak", 0)
	if err != nil {
		t.Fatalf("SearchArticleNames failed: %v", err)
	}
	if len(names) == 0 {
		t.Error("non-positive limit should fall back to a default, not zero rows")
	}
}

func TestSearchArticleNames_EscapesWildcards(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.CreateOrder(testOrderInput("100% Cotton Rug")); err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if _, err := s.CreateOrder(testOrderInput("100x Cotton Rug")); err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	names, err := s.SearchArticleNames("100%", 10)
	if err != nil {
		t.Fatalf("SearchArticleNames failed: %v", err)
	}
	if len(names) != 1 || names[0] != "100% Cotton Rug" {
		t.Errorf("wildcard not escaped, got %v", names)
	}
}

func TestLatestDescriptionForArticle(t *testing.T) {
	s := newTestStore(t)

	in := testOrderInput("Sofa")
	in.Description = "Old note"
	if _, err := s.CreateOrder(in); err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	in.Description = ""
	if _, err := s.CreateOrder(in); err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	in.Description = "Fresh note"
	id3, err := s.CreateOrder(in)
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	// Make the last insert unambiguously newest.
	if _, err := s.db.Exec(
		`UPDATE orders SET created_at = '2030-01-01T00:00:00.000Z' WHERE id = ?`, id3,
	); err != nil {
		t.Fatalf("pinning created_at: %v", err)
	}

	desc, ok, err := s.LatestDescriptionForArticle("Sofa")
	if err != nil {
		t.Fatalf("LatestDescriptionForArticle failed: %v", err)
	}
	if !ok || desc != "Fresh note" {
		t.Errorf("desc = %q ok = %v, want Fresh note", desc, ok)
	}

	_, ok, err = s.LatestDescriptionForArticle("Never Ordered")
	if err != nil {
		t.Fatalf("LatestDescriptionForArticle failed: %v", err)
	}
	if ok {
		t.Error("expected no description for unknown article")
	}
}

func TestEscapeLike(t *testing.T) {
	tests := []struct{ in, want string }{
		{"plain", "plain"},
		{"50%", `50\%`},
		{"a_b", `a\_b`},
		{`back\slash`, `back\\slash`},
	}
	for _, tt := range tests {
		if got := escapeLike(tt.in); got != tt.want {
			t.Errorf("escapeLike(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
