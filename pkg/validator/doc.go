// Package validator builds small declarative validation rules for form input.
//
// A Rule pairs a lazy Check function with translation-friendly error
// metadata. Apply evaluates every rule and aggregates the failures into
// ValidationErrors, which implements error. ApplyFirst evaluates rules in
// order and stops at the first failure, for flows whose rules are ranked
// (e.g. "too short" is reported before "does not match").
//
//	err := validator.ApplyFirst(
//	    validator.MinLenString("password", password, 8).WithMessage("Password must be at least 8 characters"),
//	    validator.Equal("confirm_password", confirm, password).WithMessage("Passwords do not match"),
//	)
//	if verrs := validator.ExtractValidationErrors(err); verrs != nil {
//	    msg := verrs.First().Message
//	}
//
// Rules carry a TranslationKey and TranslationValues so views can localize
// messages; Message is the default English text.
package validator
