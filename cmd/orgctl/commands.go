package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yukikurage/org-hierarchy-api/internal/database"
	"github.com/yukikurage/org-hierarchy-api/internal/hierarchy"
	"github.com/yukikurage/org-hierarchy-api/internal/repository"
)

// errMoveRejected marks a validate run whose move was refused.
var errMoveRejected = errors.New("move rejected")

func parseOrgID(raw string) (uint64, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid organization id: %q", raw)
	}
	return id, nil
}

func (o *globalOptions) repository() (repository.OrganizationRepository, error) {
	db, err := o.open(o)
	if err != nil {
		return nil, err
	}
	return repository.NewOrganizationRepository(db), nil
}

func (o *globalOptions) print(w io.Writer, v interface{}, text string) error {
	if o.jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	_, err := fmt.Fprintln(w, text)
	return err
}

func newDepthCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "depth ORG_ID",
		Short: "Print how many levels an organization sits below its root",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseOrgID(args[0])
			if err != nil {
				return err
			}
			repo, err := opts.repository()
			if err != nil {
				return err
			}
			depth, err := hierarchy.Depth(cmd.Context(), repo, id)
			if err != nil {
				return err
			}
			return opts.print(cmd.OutOrStdout(),
				map[string]interface{}{"organization_id": id, "depth": depth, "limit": hierarchy.MaxHierarchyDepth},
				fmt.Sprintf("organization %d: depth %d (max %d)", id, depth, hierarchy.MaxHierarchyDepth-1))
		},
	}
}

func newSubtreeCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "subtree ORG_ID",
		Short: "Print how many levels hang below an organization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseOrgID(args[0])
			if err != nil {
				return err
			}
			repo, err := opts.repository()
			if err != nil {
				return err
			}
			depth, err := hierarchy.SubtreeDepth(cmd.Context(), repo, id)
			if err != nil {
				return err
			}
			return opts.print(cmd.OutOrStdout(),
				map[string]interface{}{"organization_id": id, "subtree_depth": depth},
				fmt.Sprintf("organization %d: subtree depth %d", id, depth))
		},
	}
}

func newDescendantsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "descendants ORG_ID",
		Short: "List the organizations below an organization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseOrgID(args[0])
			if err != nil {
				return err
			}
			repo, err := opts.repository()
			if err != nil {
				return err
			}
			ids, err := hierarchy.DescendantOrgIDs(cmd.Context(), repo, id)
			if err != nil {
				return err
			}
			truncated := hierarchy.Truncated(ids)

			var b strings.Builder
			fmt.Fprintf(&b, "organization %d: %d descendants", id, len(ids))
			if truncated {
				fmt.Fprintf(&b, " (stopped at %d)", hierarchy.MaxDescendants)
			}
			for _, d := range ids {
				fmt.Fprintf(&b, "\n%d", d)
			}
			return opts.print(cmd.OutOrStdout(),
				map[string]interface{}{"organization_id": id, "descendant_ids": ids, "truncated": truncated},
				b.String())
		},
	}
}

func newValidateCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate ORG_ID PARENT_ID",
		Short: "Check whether an organization could be moved under a parent",
		Long: "Runs the same checks as a reparent request without writing anything. " +
			"Exits non-zero when the move would be rejected.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			orgID, err := parseOrgID(args[0])
			if err != nil {
				return err
			}
			parentID, err := parseOrgID(args[1])
			if err != nil {
				return err
			}
			repo, err := opts.repository()
			if err != nil {
				return err
			}

			verr := hierarchy.NewValidator(repo).ValidateHierarchy(cmd.Context(), orgID, parentID)
			var rejected *hierarchy.ValidationError
			if verr != nil && !errors.As(verr, &rejected) {
				return verr
			}

			result := map[string]interface{}{
				"organization_id": orgID,
				"parent_id":       parentID,
				"valid":           verr == nil,
			}
			text := fmt.Sprintf("ok: organization %d can move under %d", orgID, parentID)
			if rejected != nil {
				result["error"] = rejected.Error()
				text = "rejected: " + rejected.Error()
			}
			if err := opts.print(cmd.OutOrStdout(), result, text); err != nil {
				return err
			}
			if rejected != nil {
				return errMoveRejected
			}
			return nil
		},
	}
}

func newMigrateCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update tables and indexes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := opts.open(opts); err != nil {
				return err
			}
			if err := database.Migrate(); err != nil {
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return err
		},
	}
}
