package types

// KPIs holds the headline dashboard numbers. Due/overdue counts compare
// calendar dates in local time; the done-in-window counts compare
// creation timestamps in UTC.
type KPIs struct {
	TotalOrders         int64         `json:"totalOrders"`
	OpenOrders          int64         `json:"openOrders"`
	OverdueOpen         int64         `json:"overdueOpen"`
	DueToday            int64         `json:"dueToday"`
	DueNext7            int64         `json:"dueNext7"`
	Done7d              int64         `json:"done7d"`
	Done30d             int64         `json:"done30d"`
	UniqueClients       int64         `json:"uniqueClients"`
	ReturningClientsPct float64       `json:"returningClientsPct"`
	AvgLeadDays         *float64      `json:"avgLeadDays"`
	MedianLeadDays      *float64      `json:"medianLeadDays"`
	TopDeliveryCompany  *TopItemShare `json:"topDeliveryCompany"`
	TopArticle          *NameCount    `json:"topArticle"`
	TopCity             *NameCount    `json:"topCity"`
}

// TopItemShare is a top group plus its share of the window total,
// rounded to one decimal.
type TopItemShare struct {
	Name     string  `json:"name"`
	Count    int64   `json:"count"`
	SharePct float64 `json:"sharePct"`
}

// NameCount is a generic grouped count.
type NameCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// TimeCount is one point of a time series keyed by period label.
type TimeCount struct {
	Period string `json:"period"`
	Count  int64  `json:"count"`
}

// TimeDoneCount is a time-series point split by completion flag.
type TimeDoneCount struct {
	Period string `json:"period"`
	Done   bool   `json:"done"`
	Count  int64  `json:"count"`
}

// ScheduleItem is one cell of the forward delivery schedule.
type ScheduleItem struct {
	Week    string `json:"week"`
	Company string `json:"company"`
	Count   int64  `json:"count"`
}

// LeadTimeBin is one histogram bucket of whole lead-time days.
type LeadTimeBin struct {
	LeadDays int64 `json:"leadDays"`
	Count    int64 `json:"count"`
}

// CohortPoint is one month of the new-vs-returning client cohort. A
// phone counts as new in the month of its first-ever order and as
// returning in every later month it orders again.
type CohortPoint struct {
	Month     string `json:"month"`
	New       int64  `json:"new"`
	Returning int64  `json:"returning"`
}

// BucketCount is one backlog-aging band.
type BucketCount struct {
	Bucket string `json:"bucket"`
	Count  int64  `json:"count"`
}

// HeatCell is one cell of the weekday-by-hour activity heatmap.
// Weekday is 0-6 (Sunday first), hour 0-23.
type HeatCell struct {
	Weekday int64 `json:"weekday"`
	Hour    int64 `json:"hour"`
	Count   int64 `json:"count"`
}

// ExceptionRow is one overdue open order, with its age in whole days
// since creation.
type ExceptionRow struct {
	ID              int64  `json:"id"`
	ArticleName     string `json:"articleName"`
	ClientName      string `json:"clientName"`
	City            string `json:"city"`
	DeliveryCompany string `json:"deliveryCompany"`
	DeliveryDate    string `json:"deliveryDate"`
	AgeDays         int64  `json:"ageDays"`
}

// Exceptions groups the dashboard exception lists.
type Exceptions struct {
	OverdueTop10 []ExceptionRow `json:"overdueTop10"`
}

// Dashboard is the complete analytics payload. It is computed in one
// pass against a single point-in-time "now"; a failure in any section
// fails the whole payload so the sections never disagree.
type Dashboard struct {
	KPIs                  KPIs            `json:"kpis"`
	OrdersWeekly          []TimeCount     `json:"ordersOverTimeWeekly"`
	OrdersWeeklyByDone    []TimeDoneCount `json:"ordersOverTimeWeeklyByDone"`
	DeliveryScheduleWeeks []ScheduleItem  `json:"deliveryScheduleWeeks"`
	LeadTimeHistogram     []LeadTimeBin   `json:"leadTimeHistogram"`
	TopArticles           []NameCount     `json:"topArticles"`
	CompanyShare90d       []NameCount     `json:"companyShare90d"`
	NewVsReturningMonthly []CohortPoint   `json:"newVsReturningMonthly"`
	BacklogAgeBuckets     []BucketCount   `json:"backlogAgeBuckets"`
	ActivityHeatmap       []HeatCell      `json:"activityHeatmap"`
	Exceptions            Exceptions      `json:"exceptions"`
}
