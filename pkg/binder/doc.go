// Package binder decodes HTTP request bodies into tagged structs.
//
// Form binds urlencoded and multipart form fields tagged `form:"name"`;
// JSON decodes application/json bodies in strict mode. Both return
// ErrBinderNotApplicable for requests they do not handle, which lets
// handler.Wrap chain them so one endpoint accepts HTML forms and API calls:
//
//	type LoginRequest struct {
//	    Email    string `json:"email" form:"email"`
//	    Password string `json:"password" form:"password"`
//	    Remember bool   `json:"remember" form:"remember"`
//	}
//
//	handler.Wrap(login, handler.WithBinders[LoginRequest](
//	    binder.JSON(),
//	    binder.Form(),
//	))
//
// Form fields support strings, signed and unsigned integers, floats,
// lenient booleans ("on", "yes", "1"), pointers for optional values and
// slices for repeated fields.
package binder
