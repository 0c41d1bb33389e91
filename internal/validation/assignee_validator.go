package validation

// AssigneeValidator provides validation for assignee operations
type AssigneeValidator struct {
	validator *Validator
}

// NewAssigneeValidator creates a new assignee validator
func NewAssigneeValidator() *AssigneeValidator {
	return &AssigneeValidator{
		validator: NewValidator(),
	}
}

// ValidateName validates an assignee display name
func (av *AssigneeValidator) ValidateName(name string) error {
	validationError := NewValidationError()

	trimmed := av.validator.TrimAndValidateString(name)
	if !av.validator.IsNonEmptyString(trimmed) {
		validationError.AddRequiredError("name")
		return validationError
	}
	if !av.validator.IsValidStringLength(trimmed, 1, AssigneeNameMaxLength) {
		validationError.AddInvalidLengthError("name", trimmed, 1, AssigneeNameMaxLength)
	}

	return validationError.OrNil()
}

// ValidateAssigneeForRename validates renaming assignee id
func (av *AssigneeValidator) ValidateAssigneeForRename(id int64, name string) error {
	validationError := NewValidationError()

	if !av.validator.IsValidID(id) {
		validationError.AddInvalidValueError("assignee_id", id, "must be a positive integer")
	}
	validationError.Merge(av.ValidateName(name))

	return validationError.OrNil()
}

// GetValidName returns a cleaned name if valid
func (av *AssigneeValidator) GetValidName(name string) (string, error) {
	if err := av.ValidateName(name); err != nil {
		return "", err
	}
	return av.CleanName(name), nil
}

// CleanName returns name as it is sent to the server
func (av *AssigneeValidator) CleanName(name string) string {
	return av.validator.TrimAndValidateString(name)
}
