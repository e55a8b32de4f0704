package assets

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/crucial707/dosasset/cmd/cli/app"
	"github.com/crucial707/dosasset/cmd/cli/output"
	"github.com/crucial707/dosasset/internal/models"
	"github.com/crucial707/dosasset/internal/query"
)

// ==========================
// Init Assets
// ==========================
func InitAssets(rootCmd *cobra.Command) {

	assetsCmd := &cobra.Command{
		Use:   "assets",
		Short: "Manage assets",
	}

	assetsCmd.AddCommand(
		listAssetsCmd(),
		addAssetCmd(),
		editAssetCmd(),
		retireAssetCmd(),
		assignAssetCmd(),
		deleteAssetCmd(),
	)

	rootCmd.AddCommand(assetsCmd)
}

// ==========================
// LIST
// ==========================
func listAssetsCmd() *cobra.Command {
	var f query.Filter // Query comes from the arguments
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list [query]",
		Short: "List assets",
		Long: `List assets matching a query. Terms are key=value (field contains value)
or free text (any of tag, type, model, serial, owner, location, status contains it).
All terms must match; matching ignores case.`,
		Example: "  dosasset assets list owner=alice laptop\n  dosasset assets list --status repair",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.FromContext(cmd.Context())
			if err != nil {
				return err
			}
			if f.Status != "" && !models.ValidStatus(f.Status) {
				return fmt.Errorf("invalid status %q", f.Status)
			}
			filter := f
			filter.Query = strings.Join(args, " ")

			assets := a.Inv.Filter(filter)
			if asJSON {
				b, _ := json.MarshalIndent(assets, "", "  ")
				fmt.Fprintln(cmd.OutOrStdout(), string(b))
				return nil
			}
			if len(assets) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No assets found.")
				return nil
			}
			output.AssetTable(cmd.OutOrStdout(), assets)
			return nil
		},
	}

	cmd.Flags().StringVar(&f.Status, "status", "", "only assets with this status")
	cmd.Flags().StringVar(&f.Type, "type", "", "only assets of this type")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")

	return cmd
}

// ==========================
// ADD
// ==========================
func addAssetCmd() *cobra.Command {
	var in models.Asset

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add asset",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.FromContext(cmd.Context())
			if err != nil {
				return err
			}
			asset, err := a.Inv.Add(a.Actor(cmd.Context()), in)
			if err != nil {
				return err
			}
			output.SuccessColor.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", asset.Tag, asset.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Tag, "tag", "", "asset tag (required)")
	cmd.Flags().StringVar(&in.Type, "type", "", "asset type, e.g. laptop (required)")
	cmd.Flags().StringVar(&in.Model, "model", "", "model (required)")
	cmd.Flags().StringVar(&in.Serial, "serial", "", "serial number (required)")
	cmd.Flags().StringVar(&in.Owner, "owner", "", "owner")
	cmd.Flags().StringVar(&in.Location, "location", "", "location")
	cmd.Flags().StringVar(&in.Status, "status", models.StatusActive, "active, repair, retired or lost")
	cmd.Flags().StringVar(&in.PurchaseDate, "purchase-date", "", "purchase date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&in.Notes, "notes", "", "notes")
	for _, f := range []string{"tag", "type", "model", "serial"} {
		cmd.MarkFlagRequired(f)
	}

	return cmd
}

// ==========================
// EDIT
// ==========================
func editAssetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit [id]",
		Short: "Edit asset fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.FromContext(cmd.Context())
			if err != nil {
				return err
			}
			fields := map[string]string{}
			for _, name := range models.EditableFields {
				if cmd.Flags().Changed(name) {
					fields[name], _ = cmd.Flags().GetString(name)
				}
			}
			if len(fields) == 0 {
				return fmt.Errorf("nothing to change; set at least one of %v", models.EditableFields)
			}
			asset, err := a.Inv.Update(a.Actor(cmd.Context()), args[0], fields)
			if err != nil {
				return err
			}
			output.SuccessColor.Fprintf(cmd.OutOrStdout(), "Edited %s\n", asset.Tag)
			return nil
		},
	}

	for _, name := range models.EditableFields {
		cmd.Flags().String(name, "", "new "+name)
	}

	return cmd
}

// ==========================
// RETIRE
// ==========================
func retireAssetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "retire [id]...",
		Short: "Retire one or more assets",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.FromContext(cmd.Context())
			if err != nil {
				return err
			}
			n, err := a.Inv.BatchRetire(a.Actor(cmd.Context()), args)
			if err != nil {
				return err
			}
			report(cmd, "Retired", n, len(args))
			return nil
		},
	}
}

// ==========================
// ASSIGN
// ==========================
func assignAssetCmd() *cobra.Command {
	var owner string

	cmd := &cobra.Command{
		Use:   "assign [id]...",
		Short: "Assign one or more assets to an owner",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.FromContext(cmd.Context())
			if err != nil {
				return err
			}
			if strings.TrimSpace(owner) == "" {
				return fmt.Errorf("owner must not be blank")
			}
			n, err := a.Inv.BatchAssign(a.Actor(cmd.Context()), args, owner)
			if err != nil {
				return err
			}
			report(cmd, "Assigned", n, len(args))
			return nil
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "new owner (required)")
	cmd.MarkFlagRequired("owner")

	return cmd
}

// ==========================
// DELETE
// ==========================
func deleteAssetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.FromContext(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.Inv.Delete(a.Actor(cmd.Context()), args[0]); err != nil {
				return err
			}
			output.SuccessColor.Fprintln(cmd.OutOrStdout(), "Asset deleted")
			return nil
		},
	}
}

func report(cmd *cobra.Command, verb string, n, requested int) {
	w := cmd.OutOrStdout()
	if n == requested {
		output.SuccessColor.Fprintf(w, "%s %d asset(s)\n", verb, n)
		return
	}
	output.WarnColor.Fprintf(w, "%s %d of %d asset(s); the rest were not found\n", verb, n, requested)
}
