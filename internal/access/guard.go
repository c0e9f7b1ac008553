package access

// Evaluate decides whether a principal may reach the surface the policy
// protects. Pure: no I/O, no clock, fully table-testable.
//
// The nil-principal check runs before role evaluation and is
// independent of the policy contents. It corresponds to the outer
// "must be signed in" gate; role membership is the inner gate.
func Evaluate(principal *Principal, policy AccessPolicy) Decision {
	if principal == nil {
		return Decision{Allowed: false, Reason: ReasonNoSession}
	}
	if policy.Allows(principal.Role) {
		return Decision{Allowed: true, Reason: ReasonGranted}
	}
	return Decision{Allowed: false, Reason: ReasonRoleNotAllowed}
}
