package invoice

import "flexirent/internal/domain"

// mergeCustomer lays caller-supplied overrides over the rental's stored
// customer snapshot, field by field.
func mergeCustomer(base domain.CustomerSnapshot, over *CustomerOverrides) domain.CustomerSnapshot {
	if over == nil {
		return base
	}
	out := base
	if over.Name != "" {
		out.Name = over.Name
	}
	if over.Email != "" {
		out.Email = over.Email
	}
	if over.Phone != "" {
		out.Phone = over.Phone
	}
	if over.Address != "" {
		out.Address = over.Address
	}
	if over.City != "" {
		out.City = over.City
	}
	if over.ZipCode != "" {
		out.ZipCode = over.ZipCode
	}
	return out
}
