package types

// ActivityType is the fixed vocabulary of activity log subjects.
type ActivityType string

const (
	ActivityTypeMember   ActivityType = "member"
	ActivityTypeVisitor  ActivityType = "visitor"
	ActivityTypeTrainer  ActivityType = "trainer"
	ActivityTypeInvoice  ActivityType = "invoice"
	ActivityTypeFollowup ActivityType = "followup"
)

func (t ActivityType) Valid() bool {
	switch t {
	case ActivityTypeMember, ActivityTypeVisitor, ActivityTypeTrainer, ActivityTypeInvoice, ActivityTypeFollowup:
		return true
	}
	return false
}

const (
	ActivityActionMemberRegistered  = "Member registered"
	ActivityActionMemberUpdated     = "Member updated"
	ActivityActionMemberCheckedIn   = "Member checked in"
	ActivityActionMembershipRenewed = "Membership renewed"
	ActivityActionMemberDeleted     = "Member deleted"
	ActivityActionInvoiceCreated    = "Invoice created"
	ActivityActionInvoiceUpdated    = "Invoice status changed"
)
