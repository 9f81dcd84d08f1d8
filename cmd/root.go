package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/samistat08/ro-process-dashboard/internal/logger"
	"github.com/samistat08/ro-process-dashboard/internal/models"
	"github.com/samistat08/ro-process-dashboard/internal/simulator"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "rodash",
	Short: "Simulates telemetry data for reverse osmosis desalination plants",
	Long: `rodash generates synthetic process telemetry for a
fleet of reverse osmosis desalination sites: feed pressure, flow, conductivity,
temperature, pH, recovery rate and salt rejection, with membrane fouling drift
and maintenance alerts. Output goes to files, Kafka, MQTT or Postgres.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := models.LoadConfig(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		log, err := logger.New(cfg.LogLevel)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error initialising logger: %v\n", err)
			os.Exit(1)
		}
		defer log.Sync()

		sim := simulator.NewSimulator(cfg, log)
		if err := sim.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Simulation failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is examples/config.json)")

	rootCmd.Flags().Int("seed", 42, "Random seed for simulation")
	rootCmd.Flags().String("start-date", time.Now().Format(time.RFC3339), "Start date for simulation")
	rootCmd.Flags().String("end-date", time.Now().AddDate(0, 1, 0).Format(time.RFC3339), "End date for simulation")
	rootCmd.Flags().String("sample-interval", "5m", "Interval between telemetry samples")
	rootCmd.Flags().String("sites-file", "", "CSV file with site definitions")
	rootCmd.Flags().Int("initial-sites", 5, "Number of sites to generate when no sites file is given")
	rootCmd.Flags().Float64("fouling-rate", 0.01, "Membrane fouling accumulation per day")
	rootCmd.Flags().Float64("weekend-factor", 0.85, "Demand multiplier applied on weekends")
	rootCmd.Flags().Bool("kafka-enabled", false, "Enable Kafka output")
	rootCmd.Flags().String("kafka-broker-list", "localhost:9092", "Kafka broker list")
	rootCmd.Flags().Bool("mqtt-enabled", false, "Enable MQTT output")
	rootCmd.Flags().String("mqtt-broker-url", "tcp://localhost:1883", "MQTT broker URL")
	rootCmd.Flags().Bool("postgres-enabled", false, "Write output to Postgres")
	rootCmd.Flags().String("output-path", "", "Output directory for file-based formats")
	rootCmd.Flags().String("output-format", "json", "Output format: json, csv or parquet")
	rootCmd.Flags().Bool("continuous", false, "Run simulation in continuous mode")

	viper.BindPFlags(rootCmd.Flags())
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath("examples")
		viper.SetConfigType("json")
		viper.SetConfigName("config")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
