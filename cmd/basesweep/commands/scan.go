package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.trai.ch/basesweep/internal/app"
	"go.trai.ch/basesweep/internal/core/domain"
)

func (c *CLI) newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "List base images no instance uses, and optionally delete them",
		Long: "Scan the image cache for base images older than the minimum age that no instance disk\n" +
			"uses as its backing file. Each one is printed on its own line. With --delete they are\n" +
			"removed, unless some instance references a backing file that is missing from the cache.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()

			configPath, _ := flags.GetString("config")
			readNova, _ := flags.GetBool("readconfig")
			// An explicit nova.conf location implies reading it.
			readNova = readNova || flags.Changed("nova-conf")
			novaConf, _ := flags.GetString("nova-conf")
			verbose, _ := flags.GetBool("verbose")
			del, _ := flags.GetBool("delete")
			expectDigest, _ := flags.GetString("expect-digest")

			return c.app.Run(cmd.Context(), app.RunOptions{
				ConfigPath:     configPath,
				ConfigExplicit: flags.Changed("config"),
				Overrides:      overrides(flags),
				ReadNovaConf:   readNova,
				NovaConfPath:   novaConf,
				Verbose:        verbose,
				Delete:         del,
				ExpectDigest:   expectDigest,
			})
		},
	}
	cmd.Flags().StringP("statepath", "s", domain.DefaultStatePath, "Nova state path")
	cmd.Flags().StringP("instancesname", "i", domain.DefaultInstancesName, "Name of the instances directory")
	cmd.Flags().StringP("cachename", "c", domain.DefaultCacheName, "Name of the image cache directory")
	cmd.Flags().BoolP("readconfig", "r", false, "Read paths from nova.conf")
	cmd.Flags().String("nova-conf", domain.DefaultNovaConfPath, "Path of nova.conf, implies --readconfig")
	cmd.Flags().Float64P("age", "a", domain.DefaultMinAge, "Minimum age in seconds of a removable image")
	cmd.Flags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.Flags().BoolP("delete", "d", false, "Delete unused images")
	cmd.Flags().IntP("concurrency", "j", 1, "Number of disks inspected in parallel")
	cmd.Flags().String("qemu-img", domain.DefaultQemuImg, "Path of the qemu-img binary")
	cmd.Flags().String("expect-digest", "", "Only delete if the deletion plan has this digest")
	cmd.Flags().String("journal", "", "Append a record of the run to this file")
	return cmd
}

// overrides collects the flags the user set explicitly.
func overrides(flags *pflag.FlagSet) domain.SettingsOverrides {
	var o domain.SettingsOverrides
	if flags.Changed("statepath") {
		v, _ := flags.GetString("statepath")
		o.StatePath = &v
	}
	if flags.Changed("instancesname") {
		v, _ := flags.GetString("instancesname")
		o.InstancesName = &v
	}
	if flags.Changed("cachename") {
		v, _ := flags.GetString("cachename")
		o.CacheName = &v
	}
	if flags.Changed("age") {
		v, _ := flags.GetFloat64("age")
		o.MinAge = &v
	}
	if flags.Changed("qemu-img") {
		v, _ := flags.GetString("qemu-img")
		o.QemuImg = &v
	}
	if flags.Changed("concurrency") {
		v, _ := flags.GetInt("concurrency")
		o.Concurrency = &v
	}
	if flags.Changed("journal") {
		v, _ := flags.GetString("journal")
		o.Journal = &v
	}
	return o
}
