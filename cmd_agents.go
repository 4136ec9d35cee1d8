package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aaronzipp/sus-arena/internal/arena"
	"github.com/aaronzipp/sus-arena/internal/render"
)

func newAgentsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agents",
		Short: "Manage the agent directory",
	}
	cmd.AddCommand(
		newAgentsListCmd(opts),
		newAgentsInitCmd(opts),
		newAgentsCreateCmd(opts),
	)
	return cmd
}

func newAgentsListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print agents ranked by wins",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := opts.open(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()
			svc, err := a.service(arena.Options{})
			if err != nil {
				return err
			}
			agents, err := svc.ListAgents(ctx)
			if err != nil {
				return err
			}
			if len(agents) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No agents.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), render.ScoreTable(agents))
			return nil
		},
	}
}

func newAgentsInitCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Insert or refresh the demo agents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := opts.open(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()
			svc, err := a.service(arena.Options{})
			if err != nil {
				return err
			}
			agents, err := svc.SeedAgents(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d agents\n", len(agents))
			return nil
		},
	}
}

func newAgentsCreateCmd(opts *rootOptions) *cobra.Command {
	var avatar string
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Register a new agent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := opts.open(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()
			svc, err := a.service(arena.Options{})
			if err != nil {
				return err
			}
			agent, err := svc.CreateAgent(ctx, args[0], avatar)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), agent.AgentID)
			return nil
		},
	}
	cmd.Flags().StringVar(&avatar, "avatar", "", "avatar URL")
	return cmd
}
