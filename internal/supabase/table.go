package supabase

import (
	"context"
	"fmt"

	"clinic_crm_backend/internal/models"
	"clinic_crm_backend/internal/repositories"
)

// Table is a PostgREST-backed repositories.Gateway for one table.
// Rows are exchanged using the models' JSON field names.
type Table[T any] struct {
	client *Client
	name   string
	order  string
	idOf   func(T) string
}

// NewTable binds a gateway to a table. order is a PostgREST order clause such as "name.asc";
// empty leaves the backend order.
func NewTable[T any](client *Client, name, order string, idOf func(T) string) *Table[T] {
	return &Table[T]{client: client, name: name, order: order, idOf: idOf}
}

var _ repositories.Gateway[struct{}] = (*Table[struct{}])(nil)

func (t *Table[T]) path() string {
	return "/rest/v1/" + t.name
}

func (t *Table[T]) GetAll(ctx context.Context) ([]T, error) {
	var rows []T
	req := t.client.http.R().
		SetContext(ctx).
		SetQueryParam("select", "*").
		SetResult(&rows).
		SetError(&apiError{})
	if t.order != "" {
		req.SetQueryParam("order", t.order)
	}
	resp, err := req.Get(t.path())
	if err := checkResponse(resp, err, "listing "+t.name); err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []T{}
	}
	return rows, nil
}

// Upsert inserts the row or merges it over the row with the same primary key.
func (t *Table[T]) Upsert(ctx context.Context, item T) error {
	resp, err := t.client.http.R().
		SetContext(ctx).
		SetHeader("Prefer", "resolution=merge-duplicates,return=minimal").
		SetQueryParam("on_conflict", "id").
		SetBody([]T{item}).
		SetError(&apiError{}).
		Post(t.path())
	return checkResponse(resp, err, fmt.Sprintf("upserting %s %s", t.name, t.idOf(item)))
}

// Delete removes the row by id and reports ErrNotFound when nothing matched.
func (t *Table[T]) Delete(ctx context.Context, id string) error {
	var deleted []map[string]any
	resp, err := t.client.http.R().
		SetContext(ctx).
		SetHeader("Prefer", "return=representation").
		SetQueryParam("id", "eq."+id).
		SetResult(&deleted).
		SetError(&apiError{}).
		Delete(t.path())
	if err := checkResponse(resp, err, fmt.Sprintf("deleting %s %s", t.name, id)); err != nil {
		return err
	}
	if len(deleted) == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// NewGateways binds every entity collection to its Supabase table.
func NewGateways(client *Client) repositories.Gateways {
	return repositories.Gateways{
		Clients: NewTable(client, "clients", "name.asc", func(c models.Client) string { return c.ID }),
		Appointments: NewTable(client, "appointments", "date.asc,time.asc",
			func(a models.Appointment) string { return a.ID }),
		Transactions: NewTable(client, "transactions", "date.desc",
			func(t models.Transaction) string { return t.ID }),
		Packages: NewTable(client, "procedure_packages", "name.asc",
			func(p models.ProcedurePackage) string { return p.ID }),
		Deals:     NewTable(client, "deals", "expected_close_date.asc", func(d models.Deal) string { return d.ID }),
		Suppliers: NewTable(client, "suppliers", "name.asc", func(s models.Supplier) string { return s.ID }),
		Staff:     NewStaffTable(client),
	}
}
