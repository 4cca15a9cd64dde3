package entity

import "time"

// VisitCount is the number of visits of a link accumulated since the last flush.
type VisitCount struct {
	LinkID string
	Count  int64
}

// VisitLogEntry is a single visit of a link.
// Only LinkID and VisitedAt are always known; the rest is absent for direct or anonymous traffic.
type VisitLogEntry struct {
	ID        int64
	LinkID    string
	VisitedAt time.Time
	IPAddress *string
	UserAgent *string
	Referrer  *string
}

// VisitInfo is the request metadata available when a link is visited.
type VisitInfo struct {
	IPAddress string
	UserAgent string
	Referrer  string
}

// ToLogEntry converts the request metadata into a log entry of the link visit.
func (v VisitInfo) ToLogEntry(linkID string, visitedAt time.Time) *VisitLogEntry {
	return &VisitLogEntry{
		LinkID:    linkID,
		VisitedAt: visitedAt,
		IPAddress: optional(v.IPAddress),
		UserAgent: optional(v.UserAgent),
		Referrer:  optional(v.Referrer),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
