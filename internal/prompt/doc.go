// Package prompt renders natural-language instructions from small
// handlebars-style templates.
//
// Templates are parsed once into an explicit AST of text, substitution,
// conditional and iteration nodes; rendering is a pure function of the AST
// and the request data, so the same template and data always produce
// byte-identical output.
//
// Supported constructs:
//
//	{{path.to.field}}              substitution
//	{{field | "fallback"}}         substitution with a fallback for missing or empty values
//	{{#if field}}…{{else}}…{{/if}}  conditional
//	{{#unless field}}…{{/unless}}   negated conditional
//	{{#each list}}…{{else}}…{{/each}} iteration with {{this}}, {{@index}},
//	                               {{@number}}, {{@first}} and {{@last}}
//	{{! comment}}                  ignored
//
// Inside an iteration, names resolve against the current element first and
// then against enclosing scopes.
package prompt
