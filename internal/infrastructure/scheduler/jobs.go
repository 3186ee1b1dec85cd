package scheduler

import (
	"context"
	"time"
)

// Job names
const (
	JobExpireInvitations  = "expire_invitations"
	JobFailStaleDocuments = "fail_stale_documents"
)

// InvitationExpirer marks overdue pending invitations expired
type InvitationExpirer interface {
	ExpireStale(ctx context.Context) (int64, error)
}

// StaleDocumentFailer fails extraction runs that never finished
type StaleDocumentFailer interface {
	FailStale(ctx context.Context) (int64, error)
}

// InvitationExpiryJob sweeps pending invitations past their expiry
func InvitationExpiryJob(e InvitationExpirer, every time.Duration) Job {
	return Job{Name: JobExpireInvitations, Interval: every, Run: e.ExpireStale}
}

// StaleDocumentJob fails document runs stuck in pending or processing,
// e.g. after the process crashed mid-extraction
func StaleDocumentJob(f StaleDocumentFailer, every time.Duration) Job {
	return Job{Name: JobFailStaleDocuments, Interval: every, Run: f.FailStale}
}
