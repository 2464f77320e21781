package cashflow

// validateForProjection checks what the expander needs to produce sane dates
func validateForProjection(e *Entity) error {
	errs := &ValidationErrors{}

	if e.StartDate.IsZero() {
		errs.Errors = append(errs.Errors, &ValidationError{
			EntityID: e.ID,
			Field:    "startDate",
			Message:  "missing or unparseable start date",
		})
	}

	if !e.Frequency.Valid() {
		errs.Errors = append(errs.Errors, &ValidationError{
			EntityID: e.ID,
			Field:    "frequency",
			Message:  "unknown recurrence rule",
			Value:    e.Frequency,
		})
	}

	for _, day := range e.CustomDays {
		if day < 1 || day > 31 {
			errs.Errors = append(errs.Errors, &ValidationError{
				EntityID: e.ID,
				Field:    "customDays",
				Message:  "day of month must be between 1 and 31",
				Value:    day,
			})
			break
		}
	}

	return errs.orNil()
}

// validateEntity applies the stricter checks used when an entity enters the state
func validateEntity(e *Entity) error {
	errs := &ValidationErrors{}

	if e.Name == "" {
		errs.Errors = append(errs.Errors, &ValidationError{
			EntityID: e.ID,
			Field:    "name",
			Message:  "name is required",
		})
	}

	if e.TotalAmount != nil && *e.TotalAmount < 0 {
		errs.Errors = append(errs.Errors, &ValidationError{
			EntityID: e.ID,
			Field:    "totalAmount",
			Message:  "must not be negative",
			Value:    *e.TotalAmount,
		})
	}

	if e.AmountAlreadyPaid != nil && *e.AmountAlreadyPaid < 0 {
		errs.Errors = append(errs.Errors, &ValidationError{
			EntityID: e.ID,
			Field:    "amountAlreadyPaid",
			Message:  "must not be negative",
			Value:    *e.AmountAlreadyPaid,
		})
	}

	if e.EndDate != nil && !e.EndDate.IsZero() && !e.StartDate.IsZero() && e.EndDate.Before(e.StartDate.Time) {
		errs.Errors = append(errs.Errors, &ValidationError{
			EntityID: e.ID,
			Field:    "endDate",
			Message:  "must not be before the start date",
			Value:    e.EndDate.String(),
		})
	}

	if err := validateForProjection(e); err != nil {
		errs.Errors = append(errs.Errors, err.(*ValidationErrors).Errors...)
	}

	return errs.orNil()
}
