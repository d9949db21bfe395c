package sqlite

import (
	"testing"
	"time"
)

// seedOrder inserts an order row directly so tests control the creation
// timestamp, delivery date, and done flag exactly.
type seedOrder struct {
	article   string
	client    string
	phone     string
	city      string
	company   string
	createdAt time.Time
	delivery  string // calendar date, empty for none
	done      bool
}

func insertSeedOrders(t *testing.T, s *Store, seeds []seedOrder) {
	t.Helper()
	for _, o := range seeds {
		if o.client == "" {
			o.client = "Client"
		}
		if o.city == "" {
			o.city = "Oslo"
		}
		done := 0
		if o.done {
			done = 1
		}
		_, err := s.db.Exec(`
            INSERT INTO orders
              (client_name, article_name, phone, city, address,
               delivery_company, delivery_date, description, done, created_at)
            VALUES (?, ?, ?, ?, '', ?, ?, NULL, ?, ?)`,
			o.client, o.article, o.phone, o.city, o.company,
			o.delivery, done, o.createdAt.UTC().Format(tsLayout))
		if err != nil {
			t.Fatalf("seeding order %q: %v", o.article, err)
		}
	}
}

func TestDashboard_EmptyDatabase(t *testing.T) {
	s := newTestStore(t)

	d, err := s.Dashboard(time.Now())
	if err != nil {
		t.Fatalf("Dashboard failed: %v", err)
	}
	k := d.KPIs
	if k.TotalOrders != 0 || k.OpenOrders != 0 || k.OverdueOpen != 0 ||
		k.DueToday != 0 || k.UniqueClients != 0 {
		t.Errorf("counts not zero: %+v", k)
	}
	if k.ReturningClientsPct != 0 {
		t.Errorf("ReturningClientsPct = %v, want 0", k.ReturningClientsPct)
	}
	if k.AvgLeadDays != nil || k.MedianLeadDays != nil {
		t.Error("lead-time KPIs must be absent with no orders")
	}
	if k.TopDeliveryCompany != nil || k.TopArticle != nil || k.TopCity != nil {
		t.Error("top items must be absent with no orders")
	}
	if len(d.OrdersWeekly) != 0 || len(d.BacklogAgeBuckets) != 0 ||
		len(d.Exceptions.OverdueTop10) != 0 {
		t.Errorf("series not empty: %+v", d)
	}
}

func TestDashboard_Counts(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()
	today := now.Local().Format(dateLayout)
	yesterday := now.Local().AddDate(0, 0, -1).Format(dateLayout)
	inThree := now.Local().AddDate(0, 0, 3).Format(dateLayout)
	inNine := now.Local().AddDate(0, 0, 9).Format(dateLayout)

	insertSeedOrders(t, s, []seedOrder{
		{article: "Overdue", phone: "p1", company: "Acme", createdAt: now.AddDate(0, 0, -10), delivery: yesterday},
		{article: "Due today", phone: "p2", company: "Acme", createdAt: now.AddDate(0, 0, -2), delivery: today},
		{article: "Due soon", phone: "p3", company: "Acme", createdAt: now.AddDate(0, 0, -1), delivery: inThree},
		{article: "Due later", phone: "p4", company: "Acme", createdAt: now, delivery: inNine},
		{article: "Finished", phone: "p5", company: "Acme", createdAt: now.AddDate(0, 0, -3), delivery: yesterday, done: true},
	})

	d, err := s.Dashboard(now)
	if err != nil {
		t.Fatalf("Dashboard failed: %v", err)
	}
	k := d.KPIs
	if k.TotalOrders != 5 {
		t.Errorf("TotalOrders = %d, want 5", k.TotalOrders)
	}
	if k.OpenOrders != 4 {
		t.Errorf("OpenOrders = %d, want 4", k.OpenOrders)
	}
	if k.OverdueOpen != 1 {
		t.Errorf("OverdueOpen = %d, want 1", k.OverdueOpen)
	}
	if k.DueToday != 1 {
		t.Errorf("DueToday = %d, want 1", k.DueToday)
	}
	if k.DueNext7 != 1 {
		t.Errorf("DueNext7 = %d, want 1", k.DueNext7)
	}
	if k.Done7d != 1 {
		t.Errorf("Done7d = %d, want 1", k.Done7d)
	}
	if k.UniqueClients != 5 {
		t.Errorf("UniqueClients = %d, want 5", k.UniqueClients)
	}
}

func TestDashboard_MedianLowerMiddle(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()
	created := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	// Lead times 1, 3, 5 days.
	insertSeedOrders(t, s, []seedOrder{
		{article: "A", phone: "p1", company: "Acme", createdAt: created, delivery: "2026-08-02"},
		{article: "B", phone: "p2", company: "Acme", createdAt: created, delivery: "2026-08-04"},
		{article: "C", phone: "p3", company: "Acme", createdAt: created, delivery: "2026-08-06"},
	})
	d, err := s.Dashboard(now)
	if err != nil {
		t.Fatalf("Dashboard failed: %v", err)
	}
	if d.KPIs.MedianLeadDays == nil || *d.KPIs.MedianLeadDays != 3 {
		t.Errorf("median of [1 3 5] = %v, want 3", d.KPIs.MedianLeadDays)
	}
	if d.KPIs.AvgLeadDays == nil || *d.KPIs.AvgLeadDays != 3 {
		t.Errorf("avg of [1 3 5] = %v, want 3", d.KPIs.AvgLeadDays)
	}

	// Even count takes the element at offset count/2: [1 3 5 7] -> 5.
	insertSeedOrders(t, s, []seedOrder{
		{article: "D", phone: "p4", company: "Acme", createdAt: created, delivery: "2026-08-08"},
	})
	d, err = s.Dashboard(now)
	if err != nil {
		t.Fatalf("Dashboard failed: %v", err)
	}
	if d.KPIs.MedianLeadDays == nil || *d.KPIs.MedianLeadDays != 5 {
		t.Errorf("median of [1 3 5 7] = %v, want 5", d.KPIs.MedianLeadDays)
	}
}

func TestDashboard_ReturningClientsPct(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()
	created := now.AddDate(0, 0, -5)

	// Ten distinct phones, three of them with a second order: 30%.
	seeds := []seedOrder{}
	for i := 0; i < 10; i++ {
		seeds = append(seeds, seedOrder{
			article: "Item", phone: string(rune('a' + i)), company: "Acme", createdAt: created,
		})
	}
	for _, phone := range []string{"a", "b", "c"} {
		seeds = append(seeds, seedOrder{
			article: "Item", phone: phone, company: "Acme", createdAt: created.Add(time.Hour),
		})
	}
	insertSeedOrders(t, s, seeds)

	d, err := s.Dashboard(now)
	if err != nil {
		t.Fatalf("Dashboard failed: %v", err)
	}
	if d.KPIs.ReturningClientsPct != 30.0 {
		t.Errorf("ReturningClientsPct = %v, want 30.0", d.KPIs.ReturningClientsPct)
	}
}

func TestDashboard_CompanyShare(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()
	created := now.AddDate(0, 0, -10)

	seeds := []seedOrder{}
	add := func(company string, n int) {
		for i := 0; i < n; i++ {
			seeds = append(seeds, seedOrder{
				article: "Item", phone: "p", city: "Oslo", company: company, createdAt: created,
			})
		}
	}
	add("Alpha", 5)
	add("Beta", 3)
	add("Gamma", 2)
	insertSeedOrders(t, s, seeds)

	d, err := s.Dashboard(now)
	if err != nil {
		t.Fatalf("Dashboard failed: %v", err)
	}
	top := d.KPIs.TopDeliveryCompany
	if top == nil {
		t.Fatal("TopDeliveryCompany is nil")
	}
	if top.Name != "Alpha" || top.Count != 5 || top.SharePct != 50.0 {
		t.Errorf("top company = %+v, want Alpha 5 50.0", top)
	}

	want := []struct {
		name  string
		count int64
	}{{"Alpha", 5}, {"Beta", 3}, {"Gamma", 2}}
	if len(d.CompanyShare90d) != len(want) {
		t.Fatalf("CompanyShare90d = %+v", d.CompanyShare90d)
	}
	for i, w := range want {
		if d.CompanyShare90d[i].Name != w.name || d.CompanyShare90d[i].Count != w.count {
			t.Errorf("CompanyShare90d[%d] = %+v, want %v %d", i, d.CompanyShare90d[i], w.name, w.count)
		}
	}
}

func TestDashboard_BacklogBuckets(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()

	insertSeedOrders(t, s, []seedOrder{
		{article: "Fresh", phone: "p1", company: "Acme", createdAt: now.AddDate(0, 0, -1)},
		{article: "Mid", phone: "p2", company: "Acme", createdAt: now.AddDate(0, 0, -15)},
		{article: "Old", phone: "p3", company: "Acme", createdAt: now.AddDate(0, 0, -45)},
		{article: "Done", phone: "p4", company: "Acme", createdAt: now.AddDate(0, 0, -45), done: true},
	})

	d, err := s.Dashboard(now)
	if err != nil {
		t.Fatalf("Dashboard failed: %v", err)
	}
	got := map[string]int64{}
	for i, b := range d.BacklogAgeBuckets {
		got[b.Bucket] = b.Count
		if i > 0 && bucketRank(d.BacklogAgeBuckets[i-1].Bucket) > bucketRank(b.Bucket) {
			t.Errorf("buckets out of age order: %+v", d.BacklogAgeBuckets)
		}
	}
	want := map[string]int64{"0-2": 1, "14-29": 1, "30+": 1}
	for bucket, count := range want {
		if got[bucket] != count {
			t.Errorf("bucket %q = %d, want %d (all: %v)", bucket, got[bucket], count, got)
		}
	}
	if len(got) != len(want) {
		t.Errorf("unexpected buckets: %v", got)
	}
}

func bucketRank(bucket string) int {
	switch bucket {
	case "0-2":
		return 1
	case "3-6":
		return 2
	case "7-13":
		return 3
	case "14-29":
		return 4
	default:
		return 5
	}
}

func TestDashboard_OverdueTop10(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()
	d2 := now.Local().AddDate(0, 0, -2).Format(dateLayout)
	d5 := now.Local().AddDate(0, 0, -5).Format(dateLayout)
	tomorrow := now.Local().AddDate(0, 0, 1).Format(dateLayout)

	insertSeedOrders(t, s, []seedOrder{
		{article: "Late", phone: "p1", company: "Acme", createdAt: now.AddDate(0, 0, -3), delivery: d2},
		{article: "Later", phone: "p2", company: "Acme", createdAt: now.AddDate(0, 0, -8), delivery: d5},
		{article: "Done late", phone: "p3", company: "Acme", createdAt: now.AddDate(0, 0, -8), delivery: d5, done: true},
		{article: "On time", phone: "p4", company: "Acme", createdAt: now, delivery: tomorrow},
	})

	d, err := s.Dashboard(now)
	if err != nil {
		t.Fatalf("Dashboard failed: %v", err)
	}
	rows := d.Exceptions.OverdueTop10
	if len(rows) != 2 {
		t.Fatalf("overdue rows = %d, want 2: %+v", len(rows), rows)
	}
	// Most overdue first.
	if rows[0].ArticleName != "Later" || rows[1].ArticleName != "Late" {
		t.Errorf("overdue ordering wrong: %+v", rows)
	}
	if rows[0].AgeDays != 8 {
		t.Errorf("AgeDays = %d, want 8", rows[0].AgeDays)
	}
}

func TestDashboard_SeriesShapes(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()
	created := now.AddDate(0, 0, -3)
	nextWeek := now.Local().AddDate(0, 0, 7).Format(dateLayout)

	insertSeedOrders(t, s, []seedOrder{
		{article: "Lamp", phone: "p1", city: "Bergen", company: "Acme", createdAt: created, delivery: nextWeek},
		{article: "Lamp", phone: "p2", city: "Bergen", company: "Acme", createdAt: created, delivery: nextWeek},
		{article: "Desk", phone: "p1", city: "Oslo", company: "Nordic", createdAt: now.Add(-time.Hour)},
	})

	d, err := s.Dashboard(now)
	if err != nil {
		t.Fatalf("Dashboard failed: %v", err)
	}
	if len(d.OrdersWeekly) == 0 || len(d.OrdersWeeklyByDone) == 0 {
		t.Error("weekly series empty")
	}
	var weekly int64
	for _, p := range d.OrdersWeekly {
		weekly += p.Count
	}
	if weekly != 3 {
		t.Errorf("weekly total = %d, want 3", weekly)
	}
	if len(d.DeliveryScheduleWeeks) == 0 {
		t.Error("delivery schedule empty")
	}
	if len(d.TopArticles) == 0 || d.TopArticles[0].Name != "Lamp" || d.TopArticles[0].Count != 2 {
		t.Errorf("TopArticles = %+v", d.TopArticles)
	}
	if d.KPIs.TopArticle == nil || d.KPIs.TopArticle.Name != "Lamp" {
		t.Errorf("TopArticle = %+v", d.KPIs.TopArticle)
	}
	if d.KPIs.TopCity == nil || d.KPIs.TopCity.Name != "Bergen" {
		t.Errorf("TopCity = %+v", d.KPIs.TopCity)
	}
	if len(d.LeadTimeHistogram) == 0 {
		t.Error("lead time histogram empty")
	}
	if len(d.NewVsReturningMonthly) == 0 {
		t.Error("cohort series empty")
	}
	var heat int64
	for _, c := range d.ActivityHeatmap {
		heat += c.Count
	}
	if heat != 3 {
		t.Errorf("heatmap total = %d, want 3", heat)
	}
}
