package validation

import "maps"

// FieldError is one failed rule for one field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   any    `json:"value"`
}

// Result is the frozen outcome of a validation run.
type Result struct {
	IsValid     bool           `json:"is_valid"`
	Errors      []FieldError   `json:"errors"`
	CleanedData map[string]any `json:"cleaned_data"`
}

// Fields returns the names of the fields that failed, in error order.
func (r Result) Fields() []string {
	out := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		out = append(out, e.Field)
	}
	return out
}

// Builder accumulates errors and cleaned values for a single validation run.
// It is not safe for concurrent use.
type Builder struct {
	errors  []FieldError
	cleaned map[string]any
}

// NewBuilder returns an empty, valid builder.
func NewBuilder() *Builder {
	return &Builder{cleaned: make(map[string]any)}
}

// AddError records a failed rule. The builder stays invalid from then on.
func (b *Builder) AddError(field, message string, value any) {
	b.errors = append(b.errors, FieldError{Field: field, Message: message, Value: value})
}

// Set records the cleaned value for a field that passed.
func (b *Builder) Set(field string, value any) {
	b.cleaned[field] = value
}

// Valid reports whether no error has been recorded yet.
func (b *Builder) Valid() bool { return len(b.errors) == 0 }

// Result freezes the builder's current state. Later builder calls do not
// affect the returned value.
func (b *Builder) Result() Result {
	r := Result{
		IsValid:     b.Valid(),
		CleanedData: maps.Clone(b.cleaned),
	}
	// errors is null in JSON when there are none.
	if len(b.errors) > 0 {
		r.Errors = append([]FieldError(nil), b.errors...)
	}
	return r
}
