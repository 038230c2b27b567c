package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"vspheremap/internal/codec"
	"vspheremap/internal/domain"
	"vspheremap/internal/graph"
	"vspheremap/internal/logging"
	"vspheremap/internal/report"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	exportPath string
	verbose    bool
}

type graphOptions struct {
	start        string
	depth        int
	noHost       bool
	noCluster    bool
	noDatastores bool
	noNetworks   bool
	noSiblingVMs bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "graphctl",
		Short:         "Inspect a vSphere inventory export offline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.exportPath, "export", "e", "", "collector export file (JSON or YAML)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log lookup misses to stderr")
	_ = root.MarkPersistentFlagRequired("export")

	root.AddCommand(
		newGraphCmd(opts),
		newReportCmd(opts),
		newSummaryCmd(opts),
		newNormalizeCmd(opts),
	)
	return root
}

func newGraphCmd(root *rootOptions) *cobra.Command {
	opts := &graphOptions{}
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Build the dependency graph rooted at a VM",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, log, err := root.load()
			if err != nil {
				return err
			}

			policy := domain.DefaultPolicy()
			policy.StartIdentifier = opts.start
			policy.Depth = opts.depth
			policy.VMInclusions.IncludeHost = !opts.noHost
			policy.VMInclusions.IncludeClusterOfHost = !opts.noCluster
			policy.VMInclusions.IncludeDatastores = !opts.noDatastores
			policy.VMInclusions.IncludeNetworks = !opts.noNetworks
			policy.HostInclusions.IncludeVMsOnHost = !opts.noSiblingVMs

			g, err := graph.Build(snap, policy, log)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), g)
		},
	}
	cmd.Flags().StringVarP(&opts.start, "start", "s", "", "start VM name or instance UUID")
	cmd.Flags().IntVarP(&opts.depth, "depth", "d", domain.MinDepth, "exploration depth (1 or 2)")
	cmd.Flags().BoolVar(&opts.noHost, "no-host", false, "skip the hosting ESXi host")
	cmd.Flags().BoolVar(&opts.noCluster, "no-cluster", false, "skip the cluster of the host")
	cmd.Flags().BoolVar(&opts.noDatastores, "no-datastores", false, "skip datastores")
	cmd.Flags().BoolVar(&opts.noNetworks, "no-networks", false, "skip networks")
	cmd.Flags().BoolVar(&opts.noSiblingVMs, "no-sibling-vms", false, "skip other VMs on the host at depth 2")
	_ = cmd.MarkFlagRequired("start")
	return cmd
}

func newReportCmd(root *rootOptions) *cobra.Command {
	var vm string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the technical document of a VM",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, _, err := root.load()
			if err != nil {
				return err
			}
			doc, err := report.GenerateVMReport(snap, vm, time.Now())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), doc)
		},
	}
	cmd.Flags().StringVar(&vm, "vm", "", "VM name or instance UUID")
	_ = cmd.MarkFlagRequired("vm")
	return cmd
}

func newSummaryCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Count the objects in the export",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, _, err := root.load()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KIND\tCOUNT")
			fmt.Fprintf(tw, "%s\t%d\n", domain.KindVM, len(snap.VMs))
			fmt.Fprintf(tw, "%s\t%d\n", domain.KindHost, len(snap.AllHosts()))
			fmt.Fprintf(tw, "%s\t%d\n", domain.KindCluster, len(snap.AllClusters()))
			fmt.Fprintf(tw, "%s\t%d\n", domain.KindDatastore, len(snap.Datastores))
			fmt.Fprintf(tw, "%s\t%d\n", domain.KindNetwork, len(snap.AllNetworks()))
			return tw.Flush()
		},
	}
}

func newNormalizeCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "normalize",
		Short: "Print the export in the normalized snapshot form",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, _, err := root.load()
			if err != nil {
				return err
			}
			var exporter codec.Exporter = codec.NewJSONCodec()
			return exporter.Export(snap, cmd.OutOrStdout())
		},
	}
}

func (o *rootOptions) load() (*domain.Snapshot, logr.Logger, error) {
	log := logr.Discard()
	if o.verbose {
		l, _, err := logging.Setup(logging.Options{Development: true, Level: "debug"})
		if err != nil {
			return nil, log, err
		}
		log = l
	}

	importer, err := codec.ForPath(o.exportPath)
	if err != nil {
		return nil, log, err
	}
	f, err := os.Open(o.exportPath)
	if err != nil {
		return nil, log, err
	}
	defer f.Close()

	snap, err := importer.Parse(f)
	if err != nil {
		return nil, log, err
	}
	snap.Source = o.exportPath
	return snap, log, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
