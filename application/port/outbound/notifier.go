package outbound

// NotificationDraft is the mail payload handed to an external composition
// collaborator after a successful send. Advisory only: it is presentation,
// not part of the audit contract, and losing it never affects the ledger.
type NotificationDraft struct {
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Notifier composes recipient-facing notification drafts.
type Notifier interface {
	ComposeSendNotice(name, email, txHash, tokenIDs string) *NotificationDraft
}
