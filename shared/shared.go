package shared

import (
	"slices"

	"todoapi/shared/constant"
	"todoapi/shared/dto"
	"todoapi/shared/timezone"
)

func FilterByID(id, fieldID, table string) dto.FilterGroup {
	return FilterByFields(table, map[string]any{fieldID: id})
}

// FilterByFields matches documents whose fields all equal the given values.
// Filters are emitted in key order so the generated query is stable.
func FilterByFields(table string, fields map[string]any) dto.FilterGroup {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}

	slices.Sort(keys)

	filters := make([]any, 0, len(keys))
	for _, key := range keys {
		filters = append(filters, dto.Filter{
			Field:    key,
			Value:    fields[key],
			Operator: dto.FilterOperatorEq,
			Table:    table,
		})
	}

	return dto.FilterGroup{
		Filters:  filters,
		Operator: dto.FilterGroupOperatorAnd,
	}
}

// Touch stamps the modification time on a set of updated fields. Stored
// timestamps are UTC and rendered in the application zone.
func Touch(fields map[string]any) map[string]any {
	if fields == nil {
		fields = map[string]any{}
	}

	fields[constant.FieldModifiedAt] = timezone.Now().UTC()

	return fields
}
