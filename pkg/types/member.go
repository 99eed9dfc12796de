package types

import "time"

type MembershipType string

const (
	MembershipTypeMonthly   MembershipType = "monthly"
	MembershipTypeQuarterly MembershipType = "quarterly"
	MembershipTypeAnnual    MembershipType = "annual"
)

var MembershipTypes = []MembershipType{MembershipTypeMonthly, MembershipTypeQuarterly, MembershipTypeAnnual}

func (t MembershipType) Valid() bool {
	switch t {
	case MembershipTypeMonthly, MembershipTypeQuarterly, MembershipTypeAnnual:
		return true
	}
	return false
}

// Months is the calendar length of one membership period.
func (t MembershipType) Months() int {
	switch t {
	case MembershipTypeMonthly:
		return 1
	case MembershipTypeQuarterly:
		return 3
	case MembershipTypeAnnual:
		return 12
	}
	return 0
}

// ExpiryFrom returns start plus one membership period. The day of month is
// clamped to the last day of the target month (Jan 31 + 1 month = Feb 28/29).
func (t MembershipType) ExpiryFrom(start time.Time) time.Time {
	return AddMonthsClamped(start, t.Months())
}

// AddMonthsClamped adds n calendar months to t without spilling into the
// following month when the target month is shorter.
func AddMonthsClamped(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	firstOfTarget := time.Date(y, m+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	if d > lastDay {
		d = lastDay
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

type MemberStatus string

const (
	MemberStatusActive    MemberStatus = "active"
	MemberStatusExpired   MemberStatus = "expired"
	MemberStatusPending   MemberStatus = "pending"
	MemberStatusSuspended MemberStatus = "suspended"
)

var MemberStatuses = []MemberStatus{MemberStatusActive, MemberStatusExpired, MemberStatusPending, MemberStatusSuspended}

func (s MemberStatus) Valid() bool {
	switch s {
	case MemberStatusActive, MemberStatusExpired, MemberStatusPending, MemberStatusSuspended:
		return true
	}
	return false
}

// MemberSortField names the columns a member listing may be ordered by.
type MemberSortField string

const (
	MemberSortByName        MemberSortField = "name"
	MemberSortByCreatedAt   MemberSortField = "createdAt"
	MemberSortByExpiryDate  MemberSortField = "expiryDate"
	MemberSortByTotalVisits MemberSortField = "totalVisits"
)

func (f MemberSortField) Valid() bool {
	switch f {
	case MemberSortByName, MemberSortByCreatedAt, MemberSortByExpiryDate, MemberSortByTotalVisits:
		return true
	}
	return false
}

type SortOrder string

const (
	SortOrderAsc  SortOrder = "asc"
	SortOrderDesc SortOrder = "desc"
)
