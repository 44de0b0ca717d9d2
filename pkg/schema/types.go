package schema

// FieldType is the discriminator that selects the render strategy of a node.
type FieldType string

const (
	FieldTypeText        FieldType = "text"
	FieldTypeNumber      FieldType = "number"
	FieldTypeEmail       FieldType = "email"
	FieldTypePassword    FieldType = "password"
	FieldTypeMultiline   FieldType = "multiline"
	FieldTypeSwitch      FieldType = "switch"
	FieldTypeCheckbox    FieldType = "checkbox"
	FieldTypeSelect      FieldType = "select"
	FieldTypeMultiSelect FieldType = "multiselect"
	FieldTypeRadio       FieldType = "radio"
	FieldTypeDate        FieldType = "date"
	FieldTypePhone       FieldType = "phone"
	FieldTypeCurrency    FieldType = "currency"
	FieldTypeObject      FieldType = "object"
	FieldTypeArray       FieldType = "array"
)

const (
	// RootKey is the key of the root object node.
	RootKey = "__root_schema__"
	// ArrayItemKey is the key of the single child describing array elements.
	ArrayItemKey = "__array_item__"
)

// DefaultMaxAllowedFields is the field ceiling applied when callers do not
// configure one.
const DefaultMaxAllowedFields = 50

// IsContainer reports whether nodes of this type own children.
func (t FieldType) IsContainer() bool {
	return t == FieldTypeObject || t == FieldTypeArray
}

// Option is a selectable choice for select, multiselect and radio fields.
type Option struct {
	Label string `json:"label" yaml:"label"`
	Value any    `json:"value" yaml:"value"`
}

// Validation holds the declarative rules checked by pkg/validation.
type Validation struct {
	Required  bool     `json:"required,omitempty" yaml:"required,omitempty"`
	Min       *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max       *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	MinLength *int     `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength *int     `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Pattern   string   `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Message   string   `json:"message,omitempty" yaml:"message,omitempty"`
}

// Config is the type-specific configuration of a node.
type Config struct {
	Default     any        `json:"default,omitempty" yaml:"default,omitempty"`
	Hidden      bool       `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	// VisibleWhen is a rule over the form value; see pkg/visibility.
	VisibleWhen string     `json:"visibleWhen,omitempty" yaml:"visibleWhen,omitempty"`
	Disabled    bool       `json:"disabled,omitempty" yaml:"disabled,omitempty"`
	Placeholder string     `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Tooltip     string     `json:"tooltip,omitempty" yaml:"tooltip,omitempty"`
	Options     []Option   `json:"options,omitempty" yaml:"options,omitempty"`
	Validation  Validation `json:"validation,omitempty" yaml:"validation,omitempty"`
}

// IsVisible is the inverse of Hidden, kept for readability at call sites.
func (c Config) IsVisible() bool {
	return !c.Hidden
}
