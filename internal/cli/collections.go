package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"bazaar-cli/internal/api"
	"bazaar-cli/internal/form"
	"bazaar-cli/internal/format"
	"bazaar-cli/internal/model"
	"bazaar-cli/internal/query"

	"github.com/spf13/cobra"
)

// collectionDef binds one admin collection to its query surface, its typed
// row decode, and its editable fields.
type collectionDef struct {
	name        string
	filterKeys  []string
	defaultSort query.Sort

	tableHeaders []string
	tableRow     func(raw json.RawMessage) ([]string, error)

	fields func() []form.Field
}

var collectionCategories = collectionDef{
	name:        "categories",
	filterKeys:  []string{"status", "search"},
	defaultSort: query.Sort{Field: "name", Direction: query.Asc},

	tableHeaders: []string{"ID", "NAME", "SLUG", "STATUS", "PRODUCTS"},
	tableRow: func(raw json.RawMessage) ([]string, error) {
		var c model.Category
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, err
		}
		return []string{c.ID, c.Name, c.Slug, c.Status, strconv.Itoa(c.ProductCount)}, nil
	},

	fields: func() []form.Field {
		return []form.Field{
			{Name: "name", Label: "Name", Required: true, MaxLen: 120},
			{Name: "slug", Label: "Slug", Slug: true, MaxLen: 120},
			{Name: "description", Label: "Description", MaxLen: 500},
		}
	},
}

var collectionProducts = collectionDef{
	name:        "products",
	filterKeys:  []string{"status", "search", "category"},
	defaultSort: query.Sort{Field: "updatedAt", Direction: query.Desc},

	tableHeaders: []string{"ID", "NAME", "SKU", "STATUS", "PRICE", "STOCK"},
	tableRow: func(raw json.RawMessage) ([]string, error) {
		var p model.Product
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		return []string{p.ID, p.Name, p.SKU, p.Status, p.Price, strconv.Itoa(p.Stock)}, nil
	},

	fields: func() []form.Field {
		return []form.Field{
			{Name: "name", Label: "Name", Required: true, MaxLen: 200},
			{Name: "sku", Label: "SKU", Required: true, MaxLen: 64},
			{Name: "price", Label: "Price", MaxLen: 32},
			{Name: "description", Label: "Description", MaxLen: 2000},
		}
	},
}

var collectionInquiries = collectionDef{
	name:        "inquiries",
	filterKeys:  []string{"status", "search", "dateRange"},
	defaultSort: query.Sort{Field: "createdAt", Direction: query.Desc},

	tableHeaders: []string{"ID", "SUBJECT", "COMPANY", "EMAIL", "STATUS"},
	tableRow: func(raw json.RawMessage) ([]string, error) {
		var q model.Inquiry
		if err := json.Unmarshal(raw, &q); err != nil {
			return nil, err
		}
		return []string{q.ID, q.Subject, q.Company, q.Email, q.Status}, nil
	},

	fields: func() []form.Field {
		return []form.Field{
			{Name: "subject", Label: "Subject", Required: true, MaxLen: 200},
			{Name: "email", Label: "Contact email", Email: true, MaxLen: 200},
			{Name: "message", Label: "Message", MaxLen: 2000},
		}
	},
}

func newCollectionCmd(app *App, def collectionDef) *cobra.Command {
	cmd := &cobra.Command{
		Use:   def.name,
		Short: "Manage " + def.name,
	}
	cmd.AddCommand(newListCmd(app, def))
	cmd.AddCommand(newSummaryCmd(app, def))
	cmd.AddCommand(newBulkCmd(app, def))
	cmd.AddCommand(newCreateCmd(app, def))
	cmd.AddCommand(newUpdateCmd(app, def))
	cmd.AddCommand(newDeleteCmd(app, def))
	return cmd
}

func newListCmd(app *App, def collectionDef) *cobra.Command {
	var (
		page     int
		pageSize int
		sortSpec string
		filters  []string
		search   string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List " + def.name,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.client()
			if err != nil {
				return err
			}

			q := query.New(pageSize, def.filterKeys, def.defaultSort)
			// Page bounds are unknown client-side; the server clamps.
			if page > 1 {
				q.Page = page
			}
			if search != "" {
				if err := q.SetFilter("search", search); err != nil {
					return err
				}
			}
			for _, kv := range filters {
				key, value, ok := strings.Cut(kv, "=")
				if !ok {
					return fmt.Errorf("invalid --filter %q (want key=value)", kv)
				}
				if err := q.SetFilter(key, value); err != nil {
					return err
				}
			}
			if sortSpec != "" {
				field, dir, _ := strings.Cut(sortSpec, ":")
				d := def.defaultSort.Direction
				if dir == "asc" {
					d = query.Asc
				} else if dir == "desc" {
					d = query.Desc
				}
				q.SetSort(field, d)
			}

			res, err := client.List(cmd.Context(), def.name, q.Values())
			if err != nil {
				return err
			}

			if app.Format == "table" {
				rows := make([][]string, 0, len(res.Items))
				for _, raw := range res.Items {
					row, err := def.tableRow(raw)
					if err != nil {
						continue
					}
					rows = append(rows, row)
				}
				if err := format.WriteTable(cmd.OutOrStdout(), def.tableHeaders, rows); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "page %d/%d (%d total)\n",
					res.Pagination.CurrentPage, res.Pagination.TotalPages, res.Pagination.Total)
				return nil
			}
			return writeOut(cmd, app, res)
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 25, "Rows per page")
	cmd.Flags().StringVar(&sortSpec, "sort", "", "Sort as field[:asc|desc]")
	cmd.Flags().StringVar(&search, "search", "", "Free-text search")
	cmd.Flags().StringArrayVar(&filters, "filter", nil, "Filter as key=value (repeatable)")
	return cmd
}

func newSummaryCmd(app *App, def collectionDef) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Status counts for " + def.name,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.client()
			if err != nil {
				return err
			}
			stats, err := client.Summary(cmd.Context(), def.name)
			if err != nil {
				return err
			}
			return writeOut(cmd, app, stats)
		},
	}
}

func newBulkCmd(app *App, def collectionDef) *cobra.Command {
	var (
		ids    []string
		reason string
	)
	cmd := &cobra.Command{
		Use:   "bulk <action>",
		Short: "Apply an action to a set of " + def.name,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(ids) == 0 {
				return errors.New("no ids given; pass --id at least once")
			}
			client, err := app.client()
			if err != nil {
				return err
			}
			msg, err := client.BulkAction(cmd.Context(), def.name, args[0], ids, reason)
			if err != nil {
				return err
			}
			return writeOut(cmd, app, map[string]any{"message": msg, "count": len(ids)})
		},
	}
	cmd.Flags().StringArrayVar(&ids, "id", nil, "Record id (repeatable)")
	cmd.Flags().StringVar(&reason, "reason", "", "Audit reason for the action")
	return cmd
}

func newCreateCmd(app *App, def collectionDef) *cobra.Command {
	var (
		fieldFlags  []string
		attachFlags []string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a " + strings.TrimSuffix(def.name, "s"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return submitForm(cmd, app, def, form.Create, "", fieldFlags, attachFlags)
		},
	}
	cmd.Flags().StringArrayVar(&fieldFlags, "field", nil, "Field as name=value (repeatable)")
	cmd.Flags().StringArrayVar(&attachFlags, "attach", nil, "Attachment as field=path (repeatable)")
	return cmd
}

func newUpdateCmd(app *App, def collectionDef) *cobra.Command {
	var fieldFlags []string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a " + strings.TrimSuffix(def.name, "s"),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return submitForm(cmd, app, def, form.Update, args[0], fieldFlags, nil)
		},
	}
	cmd.Flags().StringArrayVar(&fieldFlags, "field", nil, "Field as name=value (repeatable)")
	return cmd
}

func newDeleteCmd(app *App, def collectionDef) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a " + strings.TrimSuffix(def.name, "s"),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to delete without --yes")
			}
			client, err := app.client()
			if err != nil {
				return err
			}
			msg, err := client.Delete(cmd.Context(), def.name, args[0])
			if err != nil {
				return err
			}
			return writeOut(cmd, app, map[string]string{"message": msg})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the deletion")
	return cmd
}

// submitForm runs flag input through the same validation the TUI form uses,
// then issues the create/update.
func submitForm(cmd *cobra.Command, app *App, def collectionDef, mode form.Mode, id string, fieldFlags, attachFlags []string) error {
	values, err := parseFieldFlags(fieldFlags)
	if err != nil {
		return err
	}

	ctl := form.New(def.name, mode, id, def.fields())
	for name, value := range values {
		ctl.SetValue(name, value)
	}
	for _, kv := range attachFlags {
		field, path, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("invalid --attach %q (want field=path)", kv)
		}
		ctl.StageAttachment(field, path)
	}
	if !ctl.Validate() {
		return formErrors(ctl)
	}

	client, err := app.client()
	if err != nil {
		return err
	}
	payload := ctl.Payload()
	var msg string
	switch {
	case len(ctl.Attachments()) > 0:
		msg, err = client.CreateMultipart(cmd.Context(), def.name, payload, ctl.Attachments())
	case mode == form.Update:
		msg, err = client.Update(cmd.Context(), def.name, id, payload)
	default:
		msg, err = client.Create(cmd.Context(), def.name, payload)
	}
	if err != nil {
		if fields := api.FieldErrors(err); len(fields) > 0 {
			var b strings.Builder
			for field, m := range fields {
				fmt.Fprintf(&b, "%s: %s\n", field, m)
			}
			return errors.New(strings.TrimSpace(b.String()))
		}
		return err
	}
	return writeOut(cmd, app, map[string]string{"message": msg})
}

func formErrors(ctl *form.Controller) error {
	var b strings.Builder
	for _, f := range ctl.Fields() {
		if msg := ctl.FieldError(f.Name); msg != "" {
			fmt.Fprintf(&b, "%s: %s\n", f.Name, msg)
		}
	}
	if b.Len() == 0 {
		return errors.New("invalid input")
	}
	return errors.New(strings.TrimSpace(b.String()))
}
