// airbuddy-host runs the AirBuddy core on a Linux host: real sensors over a
// kernel I2C bus when one is given, the deterministic simulator otherwise.
// Useful for exercising the whole measurement path without flashing a board.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"airbuddy-go/bus"
	"airbuddy-go/rating"
	"airbuddy-go/services/button"
	"airbuddy-go/services/config"
	"airbuddy-go/services/display"
	"airbuddy-go/services/gps"
	"airbuddy-go/services/heartbeat"
	"airbuddy-go/services/measure"
	"airbuddy-go/services/readinglog"
	"airbuddy-go/services/rtc"
	"airbuddy-go/services/telemetry"
	"airbuddy-go/types"
	"airbuddy-go/x/logx"
)

var version = "dev"

var (
	flagDebug     bool
	flagI2C       string
	flagLogPath   string
	flagArchive   string
	flagTelemetry string
)

func main() {
	root := &cobra.Command{
		Use:          "airbuddy-host",
		Short:        "AirBuddy air-quality core on a host machine",
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVarP(&flagDebug, "debug", "d", false, "verbose logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the device core (press enter to sample)",
		RunE:  runDevice,
	}
	runCmd.Flags().StringVar(&flagI2C, "i2c", "", "periph.io I2C bus name for real sensors (e.g. /dev/i2c-1); empty = simulator")
	runCmd.Flags().StringVar(&flagLogPath, "log", "air_records.csv", "CSV reading log path")
	runCmd.Flags().StringVar(&flagArchive, "archive", "", "sqlite archive path (empty = no archive)")
	runCmd.Flags().StringVar(&flagTelemetry, "telemetry", "telemetry.jsonl", "JSON-lines telemetry mirror path")

	recordsCmd := &cobra.Command{
		Use:   "records [archive.db]",
		Short: "Print recent archived readings",
		Args:  cobra.ExactArgs(1),
		RunE:  showRecords,
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("airbuddy-host", version)
		},
	}

	root.AddCommand(runCmd, recordsCmd, versionCmd)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runDevice(cmd *cobra.Command, args []string) error {
	logx.SetLevel(flagDebug)
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = context.WithValue(ctx, config.CtxDeviceKey, "host")

	b := bus.NewBus(16)
	config.NewService().Start(ctx, b.NewConnection("config"))
	cfgConn := b.NewConnection("main")

	measureCfg := types.MeasureConfigFromMap(section(cfgConn, "measure"))
	sensorCfg := types.SensorConfigFromMap(section(cfgConn, "sensors"))
	raterCfg := types.RaterConfigFromMap(section(cfgConn, "rater"))
	buttonCfg := types.ButtonConfigFromMap(section(cfgConn, "button"))
	gpsCfg := types.GPSConfigFromMap(section(cfgConn, "gps"))
	logCfg := types.LogConfigFromMap(section(cfgConn, "log"))
	if flagLogPath != "" {
		logCfg.Path = flagLogPath
	}

	clk := rtc.NewService()
	_ = clk.Sync()

	reader, sink, err := openHardware(sensorCfg, clk.Clock())
	if err != nil {
		return err
	}

	store, cleanup, err := openStores(logCfg.Path, flagArchive)
	if err != nil {
		return err
	}
	defer cleanup()

	btnSvc := button.NewService(buttonCfg)
	btnSvc.Start(ctx, b.NewConnection("button"))
	btnSvc.WatchLines(ctx, b.NewConnection("button-input"), os.Stdin)

	log := readinglog.New(store, logCfg.RingSize)
	ctrl := measure.NewController(measureCfg, reader, rating.New(raterCfg), display.NewScreen(sink), log)
	ctrl.Start(ctx, b.NewConnection("measure"))

	gps.NewService(gpsCfg, nil).Start(ctx, b.NewConnection("gps"))
	heartbeat.NewService().Start(ctx, b.NewConnection("heartbeat"))
	telemetry.NewService(func(_ context.Context) (io.WriteCloser, error) {
		return os.OpenFile(flagTelemetry, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	}).Start(ctx, b.NewConnection("telemetry"))

	logrus.WithField("version", version).Info("airbuddy-host up; press enter to sample, ctrl-c to quit")
	<-ctx.Done()
	return nil
}

// openStores builds the CSV store, optionally teed into the sqlite archive.
func openStores(csvPath, archivePath string) (readinglog.Store, func(), error) {
	fs, err := readinglog.OpenFileStore(csvPath)
	if err != nil {
		return nil, nil, err
	}
	if archivePath == "" {
		return fs, func() { fs.Close() }, nil
	}
	ar, err := readinglog.OpenArchive(archivePath)
	if err != nil {
		fs.Close()
		return nil, nil, err
	}
	return readinglog.Tee(fs, ar), func() { fs.Close() }, nil
}

func showRecords(cmd *cobra.Command, args []string) error {
	ar, err := readinglog.OpenArchive(args[0])
	if err != nil {
		return err
	}
	rows, err := ar.RecentRows(20)
	if err != nil {
		return err
	}
	for _, r := range rows {
		fmt.Printf("%d  %.1fC %.1f%%  eCO2=%d ppm  TVOC=%d ppb  %s\n",
			r.CapturedAt, r.TempC, r.HumidityPct, r.ECO2PPM, r.TVOCPPB, r.Rating)
	}
	return nil
}

// section fetches one retained config section, nil for defaults.
func section(conn *bus.Connection, name string) map[string]any {
	sub := conn.Subscribe(bus.T("config", name))
	defer sub.Unsubscribe()
	select {
	case m := <-sub.Channel():
		if mm, ok := m.Payload.(map[string]any); ok {
			return mm
		}
	case <-time.After(500 * time.Millisecond):
	}
	return nil
}
