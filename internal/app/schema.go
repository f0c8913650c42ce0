package app

import (
	"fmt"

	"github.com/Iron-Ham/backoffice/internal/config"
	"github.com/Iron-Ham/backoffice/internal/listctl"
	"github.com/Iron-Ham/backoffice/internal/query"
	"github.com/Iron-Ham/backoffice/internal/record"
)

// SchemaFor converts a screen declaration into the controller schema.
func SchemaFor(s config.ScreenConfig) (listctl.Schema, error) {
	status := record.StatusActive
	if s.StatusDefault != "" {
		st, err := record.ParseStatus(s.StatusDefault)
		if err != nil {
			return listctl.Schema{}, fmt.Errorf("screen %s: %w", s.Name, err)
		}
		status = st
	}

	schema := listctl.Schema{
		Name:     s.Name,
		Title:    s.Title,
		Singular: s.Singular,
		Rules: record.Rules{
			IDFields:       s.IDFields,
			NaturalKey:     s.NaturalKey,
			TimestampField: s.TimestampField,
			StatusField:    s.StatusField,
			StatusDefault:  status,
		},
		ServerSearch: s.ServerSearch,
	}
	for _, c := range s.Columns {
		kind := listctl.Kind(c.Kind)
		if kind == "" {
			kind = listctl.KindText
		}
		title := c.Title
		if title == "" {
			title = c.Key
		}
		schema.Columns = append(schema.Columns, listctl.Column{
			Key:        c.Key,
			Title:      title,
			Kind:       kind,
			Searchable: c.Searchable,
			Sortable:   c.Sortable,
			Editable:   c.Editable,
			Rules:      c.Rules,
			Secondary:  c.Secondary,
		})
	}

	sortSpec, err := parseSort(s)
	if err != nil {
		return listctl.Schema{}, err
	}
	schema.DefaultSort = sortSpec

	if err := schema.Validate(); err != nil {
		return listctl.Schema{}, err
	}
	return schema, nil
}

// parseSort reads "<column>[:asc|desc]". Without one, screens sort by their
// timestamp column, newest first, when it is declared.
func parseSort(s config.ScreenConfig) (query.SortSpec, error) {
	if s.DefaultSort == "" {
		ts := s.TimestampField
		if ts == "" {
			ts = "createdAt"
		}
		for _, c := range s.Columns {
			if c.Key == ts {
				return query.SortSpec{Key: ts, Direction: query.Desc}, nil
			}
		}
		return query.SortSpec{}, nil
	}

	spec, err := query.ParseSort(s.DefaultSort)
	if err != nil {
		return query.SortSpec{}, fmt.Errorf("screen %s: default %w", s.Name, err)
	}
	return spec, nil
}
