package dto

import (
	"errors"
	"fmt"
	"maps"
	"reflect"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

const (
	FilterOperatorEq        = "eq"
	FilterOperatorLike      = "like"
	FilterOperatorIn        = "in"
	FilterOperatorNotEq     = "not_eq"
	FilterOperatorLessEq    = "less_eq"
	FilterOperatorGreaterEq = "greater_eq"
	FilterPlainQuery        = "plain"
	FilterIsNotNull         = "is_not_null"
	FilterIsNull            = "is_null"
)

const (
	FilterGroupOperatorAnd = "AND"
	FilterGroupOperatorOr  = "OR"
)

// FieldMapper renames a filter field to the name used by the store.
type FieldMapper func(field string) string

type Filter struct {
	ArgName  string
	Field    string
	Value    any
	Operator string `validate:"required,oneof=eq like in not_eq less_eq greater_eq"`
	Table    string
}

func (f *Filter) GetWhereClause() (string, map[string]any) {
	args := map[string]any{}

	column := f.Field
	if f.Table != "" {
		column = fmt.Sprintf("%s.%s", f.Table, f.Field)
	}

	argName := f.ArgName
	if argName == "" {
		argName = f.Field
	}

	switch f.Operator {
	case FilterOperatorEq:
		args[argName] = f.Value

		return fmt.Sprintf("%s = :%s", column, argName), args
	case FilterOperatorLike:
		args[argName] = fmt.Sprintf("%%%s%%", f.Value)

		return fmt.Sprintf("LOWER(%s) LIKE LOWER(:%s) ", column, argName), args
	case FilterOperatorIn:
		val := reflect.ValueOf(f.Value)

		switch val.Kind() {
		case reflect.Array, reflect.Slice:
			named := make([]string, val.Len())

			for idx := range val.Len() {
				args[fmt.Sprintf("%s_%d", argName, idx)] = val.Index(idx).Interface()

				named[idx] = fmt.Sprintf(":%s_%d", argName, idx)
			}

			return fmt.Sprintf("%s IN (%s) ", column, strings.Join(named, ", ")), args
		default:
			return fmt.Sprintf("%s IN (%s) ", column, f.Value), args
		}
	case FilterOperatorNotEq:
		args[argName] = f.Value

		return fmt.Sprintf("%s != :%s", column, argName), args
	case FilterOperatorLessEq:
		args[argName] = f.Value

		return fmt.Sprintf("%s <= :%s", column, argName), args
	case FilterOperatorGreaterEq:
		args[argName] = f.Value

		return fmt.Sprintf("%s >= :%s", column, argName), args
	case FilterPlainQuery:
		query, _ := f.Value.(string)

		return fmt.Sprintf("(%s)", query), args
	case FilterIsNotNull:
		return column + " IS NOT NULL", args
	case FilterIsNull:
		return column + " IS NULL", args
	default:
		return "", args
	}
}

// ErrNoBSONForm is returned for filters that only exist as SQL, such as
// plain queries.
var ErrNoBSONForm = errors.New("filter has no document form")

// ToBSON renders the filter as a MongoDB query document.
func (f *Filter) ToBSON(mapper FieldMapper) (bson.M, error) {
	field := f.Field
	if mapper != nil {
		field = mapper(field)
	}

	switch f.Operator {
	case FilterOperatorEq:
		return bson.M{field: f.Value}, nil
	case FilterOperatorLike:
		pattern := regexp.QuoteMeta(fmt.Sprintf("%v", f.Value))

		return bson.M{field: bson.M{"$regex": pattern, "$options": "i"}}, nil
	case FilterOperatorIn:
		return bson.M{field: bson.M{"$in": f.Value}}, nil
	case FilterOperatorNotEq:
		return bson.M{field: bson.M{"$ne": f.Value}}, nil
	case FilterOperatorLessEq:
		return bson.M{field: bson.M{"$lte": f.Value}}, nil
	case FilterOperatorGreaterEq:
		return bson.M{field: bson.M{"$gte": f.Value}}, nil
	case FilterIsNotNull:
		return bson.M{field: bson.M{"$ne": nil}}, nil
	case FilterIsNull:
		return bson.M{field: nil}, nil
	default:
		return nil, fmt.Errorf("%w: %s operator %q", ErrNoBSONForm, f.Field, f.Operator)
	}
}

type FilterGroup struct {
	Filters  []any
	Operator string
}

func (f *FilterGroup) GetWhereClause() (string, map[string]any) {
	args := map[string]any{}
	whereClause := []string{}

	for _, filter := range f.Filters {
		switch fill := filter.(type) {
		case Filter:
			where, arg := fill.GetWhereClause()
			whereClause = append(whereClause, where)

			maps.Copy(args, arg)
		case FilterGroup:
			where, arg := fill.GetWhereClause()
			if where == "" {
				continue
			}

			whereClause = append(whereClause, where)

			maps.Copy(args, arg)
		}
	}

	if len(whereClause) == 0 {
		return "", args
	}

	return fmt.Sprintf("(%s)", strings.Join(whereClause, " "+f.operator()+" ")), args
}

// ToBSON renders the group as a MongoDB query document. An empty group
// matches everything. Any member without a document form fails the whole
// group so that a query is never widened.
func (f *FilterGroup) ToBSON(mapper FieldMapper) (bson.M, error) {
	clauses := bson.A{}

	for _, filter := range f.Filters {
		var (
			doc bson.M
			err error
		)

		switch fill := filter.(type) {
		case Filter:
			doc, err = fill.ToBSON(mapper)
		case FilterGroup:
			doc, err = fill.ToBSON(mapper)
		default:
			err = fmt.Errorf("%w: %T", ErrNoBSONForm, filter)
		}

		if err != nil {
			return nil, err
		}

		if len(doc) == 0 {
			continue
		}

		clauses = append(clauses, doc)
	}

	switch len(clauses) {
	case 0:
		return bson.M{}, nil
	case 1:
		doc, _ := clauses[0].(bson.M)

		return doc, nil
	}

	if f.operator() == FilterGroupOperatorOr {
		return bson.M{"$or": clauses}, nil
	}

	return bson.M{"$and": clauses}, nil
}

func (f *FilterGroup) operator() string {
	if f.Operator == "" {
		return FilterGroupOperatorAnd
	}

	return f.Operator
}
