package documents

// AccessPolicy decides whether a principal may act on a document. It is a
// pure predicate so alternate strategies (role-based, delegated) can be
// swapped in without touching callers.
type AccessPolicy interface {
	CanAccess(doc Document, principal string) bool
}

// OwnerPolicy grants access to the document's owner only.
type OwnerPolicy struct{}

func (OwnerPolicy) CanAccess(doc Document, principal string) bool {
	return principal != "" && doc.UserID == principal
}
