package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print the size of the graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadService(cmd, opts)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), svc.Stats())
		},
	}
}

func newPathCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "path FROM TO",
		Short: "Find the fewest-hop path between two users",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadService(cmd, opts)
			if err != nil {
				return err
			}
			path, found, err := svc.ShortestPath(args[0], args[1])
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("no path between %s and %s", args[0], args[1])
			}
			return printJSON(cmd.OutOrStdout(), path)
		},
	}
}

func newRecommendCmd(opts *globalOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "recommend USER",
		Short: "Suggest friends of friends for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadService(cmd, opts)
			if err != nil {
				return err
			}
			recs, err := svc.Recommendations(args[0], limit)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), recs)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum number of suggestions")
	return cmd
}

func newInfluenceCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "influence USER",
		Short: "Score the influence of a single user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadService(cmd, opts)
			if err != nil {
				return err
			}
			score, err := svc.Influence(args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), score)
		},
	}
}

func newRankCmd(opts *globalOptions) *cobra.Command {
	var (
		users string
		top   int
	)
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank users by influence",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadService(cmd, opts)
			if err != nil {
				return err
			}
			ranked := svc.RankInfluence(splitIDs(users))
			if top > 0 && len(ranked) > top {
				ranked = ranked[:top]
			}
			return printJSON(cmd.OutOrStdout(), ranked)
		},
	}
	cmd.Flags().StringVar(&users, "users", "", "comma-separated scoring order (default: every user)")
	cmd.Flags().IntVar(&top, "top", 0, "only print the first N entries")
	return cmd
}

func newCommunitiesCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "communities",
		Short: "Detect communities with label propagation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadService(cmd, opts)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), svc.Communities())
		},
	}
}

func newCommunityCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "community USER",
		Short: "Show the community a user belongs to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadService(cmd, opts)
			if err != nil {
				return err
			}
			community, ok, err := svc.UserCommunity(args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("user %s not found", args[0])
			}
			return printJSON(cmd.OutOrStdout(), community)
		},
	}
}
