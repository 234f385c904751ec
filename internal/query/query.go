// Package query filters, sorts and paginates a ticket collection.
package query

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/AbhignaKuchukulla/Issueflow/internal/domain"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	DefaultSortBy   = "updatedAt"
)

// Params are the list filters accepted by Run.
type Params struct {
	Q         string
	Status    string
	Priority  string
	Assignee  string
	Tags      []string
	SortBy    string
	SortOrder string
	FromDate  *time.Time
	ToDate    *time.Time
	Overdue   bool
	Page      int
	PageSize  int
}

// Result is one page of matching tickets.
type Result struct {
	Total    int             `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"pageSize"`
	Data     []domain.Ticket `json:"data"`
}

// FromMap reads params from raw query values. Malformed values fall back to defaults.
func FromMap(values map[string]string) Params {
	p := Params{
		Q:         strings.TrimSpace(values["q"]),
		Status:    strings.TrimSpace(values["status"]),
		Priority:  strings.TrimSpace(values["priority"]),
		Assignee:  strings.TrimSpace(values["assignee"]),
		SortBy:    strings.TrimSpace(values["sortBy"]),
		SortOrder: strings.ToLower(strings.TrimSpace(values["sortOrder"])),
		Overdue:   values["overdue"] == "true" || values["overdue"] == "1",
		Page:      atoi(values["page"], 1),
		PageSize:  atoi(values["pageSize"], DefaultPageSize),
	}
	if raw := values["tags"]; raw != "" {
		p.Tags = domain.NormalizeTags(strings.Split(raw, ","))
	}
	p.FromDate = parseBound(values["fromDate"], false)
	p.ToDate = parseBound(values["toDate"], true)
	return p
}

func atoi(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

// parseBound accepts RFC3339 or YYYY-MM-DD. A date-only upper bound covers the whole day.
func parseBound(raw string, upper bool) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil
	}
	if upper {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t
}

// Run applies params to tickets. tickets is not modified.
func Run(tickets []domain.Ticket, p Params, now time.Time) Result {
	p = normalize(p)

	matched := make([]domain.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if Match(t, p, now) {
			matched = append(matched, t)
		}
	}

	sortTickets(matched, p.SortBy, p.SortOrder == "asc")

	total := len(matched)
	offset := (p.Page - 1) * p.PageSize
	data := []domain.Ticket{}
	if offset < total {
		end := offset + p.PageSize
		if end > total {
			end = total
		}
		data = matched[offset:end]
	}
	return Result{Total: total, Page: p.Page, PageSize: p.PageSize, Data: data}
}

func normalize(p Params) Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	if _, ok := sortKeys[p.SortBy]; !ok {
		p.SortBy = DefaultSortBy
	}
	if p.SortOrder != "asc" {
		p.SortOrder = "desc"
	}
	p.Q = strings.ToLower(p.Q)
	p.Assignee = strings.ToLower(p.Assignee)
	return p
}

// Match reports whether t passes every filter in p.
func Match(t domain.Ticket, p Params, now time.Time) bool {
	if q := strings.ToLower(p.Q); q != "" {
		if !strings.Contains(strings.ToLower(t.Title), q) && !strings.Contains(strings.ToLower(t.Description), q) {
			return false
		}
	}
	if status := domain.TicketStatus(p.Status); status.Valid() && t.Status != status {
		return false
	}
	if priority := domain.TicketPriority(p.Priority); priority.Valid() && t.Priority != priority {
		return false
	}
	if a := strings.ToLower(p.Assignee); a != "" && !strings.Contains(strings.ToLower(t.Assignee), a) {
		return false
	}
	if len(p.Tags) > 0 && !t.HasAnyTag(p.Tags) {
		return false
	}
	if p.FromDate != nil && t.CreatedAt.Before(*p.FromDate) {
		return false
	}
	if p.ToDate != nil && t.CreatedAt.After(*p.ToDate) {
		return false
	}
	if p.Overdue && !t.IsOverdue(now) {
		return false
	}
	return true
}

type sortKey struct {
	str  func(domain.Ticket) string
	time func(domain.Ticket) time.Time
}

var sortKeys = map[string]sortKey{
	"id":          {str: func(t domain.Ticket) string { return t.ID }},
	"title":       {str: func(t domain.Ticket) string { return t.Title }},
	"description": {str: func(t domain.Ticket) string { return t.Description }},
	"status":      {str: func(t domain.Ticket) string { return string(t.Status) }},
	"priority":    {str: func(t domain.Ticket) string { return string(t.Priority) }},
	"assignee":    {str: func(t domain.Ticket) string { return t.Assignee }},
	"createdAt":   {time: func(t domain.Ticket) time.Time { return t.CreatedAt }},
	"updatedAt":   {time: func(t domain.Ticket) time.Time { return t.UpdatedAt }},
	"dueDate": {time: func(t domain.Ticket) time.Time {
		if t.DueDate == nil {
			return time.Time{}
		}
		return *t.DueDate
	}},
}

// sortTickets orders by key then by id ascending, so equal keys sort the same way every time.
func sortTickets(tickets []domain.Ticket, by string, asc bool) {
	key := sortKeys[by]
	compare := func(a, b domain.Ticket) int {
		if key.time != nil {
			return key.time(a).Compare(key.time(b))
		}
		return strings.Compare(key.str(a), key.str(b))
	}
	sort.SliceStable(tickets, func(i, j int) bool {
		c := compare(tickets[i], tickets[j])
		if c == 0 {
			return tickets[i].ID < tickets[j].ID
		}
		if asc {
			return c < 0
		}
		return c > 0
	})
}
