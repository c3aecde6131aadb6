package main

import (
	"github.com/spf13/cobra"

	"workshop/internal/domain"
)

func newLayoutCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Print the parametric 3D layout of a request",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := opts.buildRequest(cmd.InOrStdin())
			if err != nil {
				return err
			}
			engine, err := opts.engine(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer engine.Close()
			layout, err := engine.Coordinator.RequestLayoutOnly(cmd.Context(), req)
			if err != nil {
				return err
			}
			return opts.print(cmd.OutOrStdout(), layout)
		},
	}
	addRequestFlags(cmd, opts)
	return cmd
}

type quote struct {
	Cost       domain.CostEstimate     `json:"cost"`
	Duration   domain.DurationEstimate `json:"duration"`
	Complexity float64                 `json:"complexity"`
	VolumeM3   float64                 `json:"volume_m3"`
	WeightKg   float64                 `json:"weight_kg"`
	Warnings   []domain.LayoutWarning  `json:"warnings,omitempty"`
}

func newQuoteCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Estimate price and lead time without calling external providers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := opts.buildRequest(cmd.InOrStdin())
			if err != nil {
				return err
			}
			engine, err := opts.engine(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer engine.Close()
			result, err := engine.Coordinator.RequestRecommendation(cmd.Context(), req)
			if err != nil {
				return err
			}
			return opts.print(cmd.OutOrStdout(), quote{
				Cost:       result.Cost,
				Duration:   result.Duration,
				Complexity: result.Technical.Complexity,
				VolumeM3:   result.Technical.VolumeM3,
				WeightKg:   result.Technical.WeightKg,
				Warnings:   result.Layout.Warnings,
			})
		},
	}
	addRequestFlags(cmd, opts)
	return cmd
}

func newRecommendCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Produce a full recommendation using the configured providers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := opts.buildRequest(cmd.InOrStdin())
			if err != nil {
				return err
			}
			engine, err := opts.engine(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer engine.Close()
			result, err := engine.Coordinator.RequestRecommendation(cmd.Context(), req)
			if err != nil {
				return err
			}
			return opts.print(cmd.OutOrStdout(), result)
		},
	}
	addRequestFlags(cmd, opts)
	return cmd
}

func newImageStatusCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "image-status <job_id>",
		Short: "Poll an image generation job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := opts.engine(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer engine.Close()
			status, err := engine.Coordinator.CheckImageJob(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return opts.print(cmd.OutOrStdout(), status)
		},
	}
}
