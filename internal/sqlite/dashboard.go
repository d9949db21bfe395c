// Analytics engine: every dashboard aggregate, computed as read-only
// queries over the order ledger. "Now" is taken once per call and passed
// into every sub-query so the sections agree on the clock. Due and
// overdue logic compares calendar dates in local time; created-in-window
// logic compares timestamps in UTC. The two are deliberately separate:
// delivery dates are date-only, creation times are timestamped.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/mesh-intelligence/waybill/pkg/types"
)

// Dashboard computes the full analytics payload at the given instant.
// Any sub-query failure fails the whole call; a partially computed
// dashboard would let the sections disagree with each other.
func (s *Store) Dashboard(now time.Time) (*types.Dashboard, error) {
	clock := dashboardClock{
		localToday:     now.Local().Format(dateLayout),
		localPlus7:     now.Local().AddDate(0, 0, 7).Format(dateLayout),
		localPlus84:    now.Local().AddDate(0, 0, 84).Format(dateLayout),
		utcNow:         now.UTC().Format(tsLayout),
		utcMinus7:      now.UTC().AddDate(0, 0, -7).Format(tsLayout),
		utcMinus30:     now.UTC().AddDate(0, 0, -30).Format(tsLayout),
		utcDateMinus90: now.UTC().AddDate(0, 0, -90).Format(dateLayout),
	}

	kpis, err := s.kpis(clock)
	if err != nil {
		return nil, err
	}

	d := &types.Dashboard{KPIs: *kpis}

	d.OrdersWeekly, err = s.ordersWeekly()
	if err != nil {
		return nil, err
	}
	d.OrdersWeeklyByDone, err = s.ordersWeeklyByDone()
	if err != nil {
		return nil, err
	}
	d.DeliveryScheduleWeeks, err = s.deliverySchedule(clock)
	if err != nil {
		return nil, err
	}
	d.LeadTimeHistogram, err = s.leadTimeHistogram()
	if err != nil {
		return nil, err
	}
	d.TopArticles, err = s.nameCounts(`
        SELECT article_name AS name, COUNT(*) AS cnt
        FROM orders
        GROUP BY article_name
        ORDER BY cnt DESC, name ASC
        LIMIT 10`)
	if err != nil {
		return nil, fmt.Errorf("top articles: %w", err)
	}
	d.CompanyShare90d, err = s.nameCounts(`
        SELECT COALESCE(NULLIF(TRIM(delivery_company),''),'(Unknown)') AS name, COUNT(*) AS cnt
        FROM orders
        WHERE date(created_at) >= ?
        GROUP BY name
        ORDER BY cnt DESC, name ASC`, clock.utcDateMinus90)
	if err != nil {
		return nil, fmt.Errorf("company share: %w", err)
	}
	d.NewVsReturningMonthly, err = s.newVsReturningMonthly()
	if err != nil {
		return nil, err
	}
	d.BacklogAgeBuckets, err = s.backlogAgeBuckets(clock)
	if err != nil {
		return nil, err
	}
	d.ActivityHeatmap, err = s.activityHeatmap()
	if err != nil {
		return nil, err
	}
	d.Exceptions.OverdueTop10, err = s.overdueTop10(clock)
	if err != nil {
		return nil, err
	}

	return d, nil
}

// dashboardClock carries the pre-formatted time parameters for one
// Dashboard call. Local fields are calendar dates for delivery-date
// comparisons; UTC fields are for creation-timestamp windows.
type dashboardClock struct {
	localToday     string
	localPlus7     string
	localPlus84    string
	utcNow         string
	utcMinus7      string
	utcMinus30     string
	utcDateMinus90 string
}

func (s *Store) kpis(clock dashboardClock) (*types.KPIs, error) {
	var k types.KPIs
	counts := []struct {
		dst   *int64
		what  string
		query string
		args  []any
	}{
		{&k.TotalOrders, "total orders",
			`SELECT COUNT(*) FROM orders`, nil},
		{&k.OpenOrders, "open orders",
			`SELECT COUNT(*) FROM orders WHERE done = 0`, nil},
		{&k.OverdueOpen, "overdue open",
			`SELECT COUNT(*) FROM orders WHERE done = 0 AND date(delivery_date) < ?`,
			[]any{clock.localToday}},
		{&k.DueToday, "due today",
			`SELECT COUNT(*) FROM orders WHERE done = 0 AND date(delivery_date) = ?`,
			[]any{clock.localToday}},
		{&k.DueNext7, "due next 7",
			`SELECT COUNT(*) FROM orders WHERE done = 0 AND date(delivery_date) > ? AND date(delivery_date) <= ?`,
			[]any{clock.localToday, clock.localPlus7}},
		{&k.Done7d, "done in 7d",
			`SELECT COUNT(*) FROM orders WHERE done = 1 AND datetime(created_at) >= datetime(?)`,
			[]any{clock.utcMinus7}},
		{&k.Done30d, "done in 30d",
			`SELECT COUNT(*) FROM orders WHERE done = 1 AND datetime(created_at) >= datetime(?)`,
			[]any{clock.utcMinus30}},
		{&k.UniqueClients, "unique clients",
			`SELECT COUNT(DISTINCT phone) FROM orders`, nil},
	}
	for _, c := range counts {
		if err := s.db.QueryRow(c.query, c.args...).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("%s: %w", c.what, err)
		}
	}

	// Phones stand in for client identity; a client is returning once it
	// has more than one order. NULLIF guards the no-orders case.
	err := s.db.QueryRow(`
        WITH per_client AS (SELECT phone, COUNT(*) AS cnt FROM orders GROUP BY phone)
        SELECT COALESCE(ROUND(100.0 * SUM(CASE WHEN cnt > 1 THEN 1 ELSE 0 END) / NULLIF(COUNT(*),0), 1), 0.0)
        FROM per_client`).Scan(&k.ReturningClientsPct)
	if err != nil {
		return nil, fmt.Errorf("returning clients pct: %w", err)
	}

	// Lead times are whole days between the creation date and the
	// delivery date, over orders with a parseable delivery date.
	var avg sql.NullFloat64
	err = s.db.QueryRow(`
        SELECT ROUND(AVG(julianday(date(delivery_date)) - julianday(date(created_at))), 2)
        FROM orders
        WHERE delivery_date IS NOT NULL`).Scan(&avg)
	if err != nil {
		return nil, fmt.Errorf("avg lead days: %w", err)
	}
	if avg.Valid {
		k.AvgLeadDays = &avg.Float64
	}

	// Median: element at offset count/2, zero-indexed ascending (the
	// lower middle never averages two elements).
	var median sql.NullFloat64
	err = s.db.QueryRow(`
        WITH lt AS (
          SELECT (julianday(date(delivery_date)) - julianday(date(created_at))) AS d
          FROM orders
          WHERE delivery_date IS NOT NULL
            AND date(delivery_date) IS NOT NULL
          ORDER BY d
        )
        SELECT d FROM lt
        LIMIT 1 OFFSET (SELECT COUNT(*) FROM lt) / 2`).Scan(&median)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("median lead days: %w", err)
	}
	if err == nil && median.Valid {
		k.MedianLeadDays = &median.Float64
	}

	var total90 int64
	err = s.db.QueryRow(
		`SELECT COUNT(*) FROM orders WHERE date(created_at) >= ?`,
		clock.utcDateMinus90,
	).Scan(&total90)
	if err != nil {
		return nil, fmt.Errorf("90d total: %w", err)
	}

	top, err := s.topNameCount(`
        SELECT COALESCE(NULLIF(TRIM(delivery_company),''),'(Unknown)') AS name, COUNT(*) AS c
        FROM orders
        WHERE date(created_at) >= ?
        GROUP BY name
        ORDER BY c DESC, name ASC
        LIMIT 1`, clock.utcDateMinus90)
	if err != nil {
		return nil, fmt.Errorf("top company: %w", err)
	}
	if top != nil {
		share := 0.0
		if total90 > 0 {
			share = round1(float64(top.Count) * 100.0 / float64(total90))
		}
		k.TopDeliveryCompany = &types.TopItemShare{Name: top.Name, Count: top.Count, SharePct: share}
	}

	k.TopArticle, err = s.topNameCount(`
        SELECT article_name, COUNT(*) AS c
        FROM orders
        WHERE date(created_at) >= ?
        GROUP BY article_name
        ORDER BY c DESC, article_name ASC
        LIMIT 1`, clock.utcDateMinus90)
	if err != nil {
		return nil, fmt.Errorf("top article: %w", err)
	}
	k.TopCity, err = s.topNameCount(`
        SELECT city, COUNT(*) AS c
        FROM orders
        WHERE date(created_at) >= ?
        GROUP BY city
        ORDER BY c DESC, city ASC
        LIMIT 1`, clock.utcDateMinus90)
	if err != nil {
		return nil, fmt.Errorf("top city: %w", err)
	}

	return &k, nil
}

func (s *Store) ordersWeekly() ([]types.TimeCount, error) {
	rows, err := s.db.Query(`
        SELECT strftime('%Y-%W', datetime(created_at)) AS period, COUNT(*) AS cnt
        FROM orders GROUP BY period ORDER BY period`)
	if err != nil {
		return nil, fmt.Errorf("weekly series: %w", err)
	}
	defer rows.Close()

	out := []types.TimeCount{}
	for rows.Next() {
		var tc types.TimeCount
		if err := rows.Scan(&tc.Period, &tc.Count); err != nil {
			return nil, fmt.Errorf("scanning weekly point: %w", err)
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}

func (s *Store) ordersWeeklyByDone() ([]types.TimeDoneCount, error) {
	rows, err := s.db.Query(`
        SELECT strftime('%Y-%W', datetime(created_at)) AS period, done, COUNT(*) AS cnt
        FROM orders GROUP BY period, done ORDER BY period, done`)
	if err != nil {
		return nil, fmt.Errorf("weekly-by-done series: %w", err)
	}
	defer rows.Close()

	out := []types.TimeDoneCount{}
	for rows.Next() {
		var tc types.TimeDoneCount
		if err := rows.Scan(&tc.Period, &tc.Done, &tc.Count); err != nil {
			return nil, fmt.Errorf("scanning weekly-by-done point: %w", err)
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}

// deliverySchedule is the forward plan: open orders due within the next
// twelve weeks, grouped by delivery week and company.
func (s *Store) deliverySchedule(clock dashboardClock) ([]types.ScheduleItem, error) {
	rows, err := s.db.Query(`
        SELECT strftime('%Y-%W', date(delivery_date)) AS week,
               COALESCE(NULLIF(TRIM(delivery_company),''),'(Unknown)') AS company,
               COUNT(*) AS cnt
        FROM orders
        WHERE date(delivery_date) BETWEEN ? AND ?
          AND done = 0
        GROUP BY week, company
        ORDER BY week, company`, clock.localToday, clock.localPlus84)
	if err != nil {
		return nil, fmt.Errorf("delivery schedule: %w", err)
	}
	defer rows.Close()

	out := []types.ScheduleItem{}
	for rows.Next() {
		var it types.ScheduleItem
		if err := rows.Scan(&it.Week, &it.Company, &it.Count); err != nil {
			return nil, fmt.Errorf("scanning schedule item: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (s *Store) leadTimeHistogram() ([]types.LeadTimeBin, error) {
	rows, err := s.db.Query(`
        SELECT CAST(ROUND(julianday(date(delivery_date)) - julianday(date(created_at))) AS INTEGER) AS lead_days,
               COUNT(*) AS cnt
        FROM orders
        WHERE delivery_date IS NOT NULL
          AND date(delivery_date) IS NOT NULL
        GROUP BY lead_days
        ORDER BY lead_days`)
	if err != nil {
		return nil, fmt.Errorf("lead time histogram: %w", err)
	}
	defer rows.Close()

	out := []types.LeadTimeBin{}
	for rows.Next() {
		var b types.LeadTimeBin
		if err := rows.Scan(&b.LeadDays, &b.Count); err != nil {
			return nil, fmt.Errorf("scanning lead time bin: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// newVsReturningMonthly classifies every order by whether it falls on
// its phone's first-ever order date. Each phone lands in exactly one
// "new" month and contributes to "returning" in any later month.
func (s *Store) newVsReturningMonthly() ([]types.CohortPoint, error) {
	rows, err := s.db.Query(`
        WITH first_seen AS (
          SELECT phone, MIN(date(created_at)) AS first_date FROM orders GROUP BY phone
        ),
        orders_m AS (
          SELECT phone, strftime('%Y-%m', date(created_at)) AS ym, date(created_at) AS d
          FROM orders
        )
        SELECT ym,
               SUM(CASE WHEN d = (SELECT first_date FROM first_seen f WHERE f.phone = o.phone) THEN 1 ELSE 0 END) AS new_clients,
               SUM(CASE WHEN d >  (SELECT first_date FROM first_seen f WHERE f.phone = o.phone) THEN 1 ELSE 0 END) AS returning_clients
        FROM orders_m o
        GROUP BY ym
        ORDER BY ym`)
	if err != nil {
		return nil, fmt.Errorf("cohort series: %w", err)
	}
	defer rows.Close()

	out := []types.CohortPoint{}
	for rows.Next() {
		var p types.CohortPoint
		if err := rows.Scan(&p.Month, &p.New, &p.Returning); err != nil {
			return nil, fmt.Errorf("scanning cohort point: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// backlogAgeBuckets bands open orders by whole days since creation. The
// bands come back in age order, not label order.
func (s *Store) backlogAgeBuckets(clock dashboardClock) ([]types.BucketCount, error) {
	rows, err := s.db.Query(`
        WITH ages AS (
          SELECT CAST(julianday(?) - julianday(datetime(created_at)) AS INT) AS age_days
          FROM orders WHERE done = 0
        )
        SELECT
          CASE
            WHEN age_days < 3  THEN '0-2'
            WHEN age_days < 7  THEN '3-6'
            WHEN age_days < 14 THEN '7-13'
            WHEN age_days < 30 THEN '14-29'
            ELSE '30+'
          END AS bucket,
          COUNT(*) AS cnt
        FROM ages
        GROUP BY bucket
        ORDER BY
          CASE bucket
            WHEN '0-2' THEN 1 WHEN '3-6' THEN 2 WHEN '7-13' THEN 3
            WHEN '14-29' THEN 4 ELSE 5 END`, clock.utcNow)
	if err != nil {
		return nil, fmt.Errorf("backlog aging: %w", err)
	}
	defer rows.Close()

	out := []types.BucketCount{}
	for rows.Next() {
		var b types.BucketCount
		if err := rows.Scan(&b.Bucket, &b.Count); err != nil {
			return nil, fmt.Errorf("scanning backlog bucket: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *Store) activityHeatmap() ([]types.HeatCell, error) {
	rows, err := s.db.Query(`
        SELECT CAST(strftime('%w', datetime(created_at)) AS INT) AS weekday,
               CAST(strftime('%H', datetime(created_at)) AS INT) AS hour,
               COUNT(*) AS cnt
        FROM orders
        GROUP BY weekday, hour
        ORDER BY weekday, hour`)
	if err != nil {
		return nil, fmt.Errorf("activity heatmap: %w", err)
	}
	defer rows.Close()

	out := []types.HeatCell{}
	for rows.Next() {
		var c types.HeatCell
		if err := rows.Scan(&c.Weekday, &c.Hour, &c.Count); err != nil {
			return nil, fmt.Errorf("scanning heat cell: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// overdueTop10 lists the ten most overdue open orders, most overdue
// first, each with its age in whole days since creation.
func (s *Store) overdueTop10(clock dashboardClock) ([]types.ExceptionRow, error) {
	rows, err := s.db.Query(`
        SELECT id, article_name, client_name, city, delivery_company, delivery_date,
               CAST(julianday(?) - julianday(datetime(created_at)) AS INT) AS age_days
        FROM orders
        WHERE done = 0 AND date(delivery_date) < ?
        ORDER BY date(delivery_date) ASC
        LIMIT 10`, clock.utcNow, clock.localToday)
	if err != nil {
		return nil, fmt.Errorf("overdue exceptions: %w", err)
	}
	defer rows.Close()

	out := []types.ExceptionRow{}
	for rows.Next() {
		var r types.ExceptionRow
		if err := rows.Scan(&r.ID, &r.ArticleName, &r.ClientName, &r.City,
			&r.DeliveryCompany, &r.DeliveryDate, &r.AgeDays); err != nil {
			return nil, fmt.Errorf("scanning exception row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// nameCounts runs a query returning (name, count) rows.
func (s *Store) nameCounts(query string, args ...any) ([]types.NameCount, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []types.NameCount{}
	for rows.Next() {
		var nc types.NameCount
		if err := rows.Scan(&nc.Name, &nc.Count); err != nil {
			return nil, err
		}
		out = append(out, nc)
	}
	return out, rows.Err()
}

// topNameCount runs a LIMIT 1 grouped query; nil means no rows.
func (s *Store) topNameCount(query string, args ...any) (*types.NameCount, error) {
	var nc types.NameCount
	err := s.db.QueryRow(query, args...).Scan(&nc.Name, &nc.Count)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &nc, nil
}

// round1 rounds to one decimal place.
func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
