package policy

import "errors"

// ErrPolicyConfig marks fatal configuration errors: the policy document is
// internally inconsistent and the evaluation must abort rather than patch
// around it. All other conditions surface as reason codes in the decision.
var ErrPolicyConfig = errors.New("policy configuration error")
