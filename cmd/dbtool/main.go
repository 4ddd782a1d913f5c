package main

import (
	"coffeemap-service/internal/adapters/repositories"
	"coffeemap-service/internal/config"
	"coffeemap-service/internal/domain"
	"coffeemap-service/internal/platform/db"
	"coffeemap-service/internal/services"
	"database/sql"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	databaseURL string
	dbPath      string
	seedPath    string

	nearbyLat   float64
	nearbyLng   float64
	nearbyLimit int
)

var rootCmd = &cobra.Command{
	Use:   "dbtool",
	Short: "Manage the coffee shop database",
	Long: `dbtool prepares and inspects the coffee shop database.

DATABASE_URL selects postgres; otherwise the sqlite file at DB_PATH is used.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found (using environment variables)")
		}
		if databaseURL == "" {
			databaseURL = config.Get("DATABASE_URL", "")
		}
		if dbPath == "" {
			dbPath = config.Get("DB_PATH", "data/app.db")
		}
		if seedPath == "" {
			seedPath = config.Get("SEED_PATH", "data/seeds/coffee_shops.json")
		}
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create tables and indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, _, err := openDB()
		if err != nil {
			return err
		}
		defer conn.Close()

		if err := repositories.InitSchema(conn); err != nil {
			return fmt.Errorf("schema initialization failed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Schema ready.")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the schema and load shops from the seed file",
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, dialect, err := openDB()
		if err != nil {
			return err
		}
		defer conn.Close()

		if err := repositories.InitSchema(conn); err != nil {
			return fmt.Errorf("schema initialization failed: %w", err)
		}
		n, err := repositories.SeedFromJSON(cmd.Context(), conn, dialect, seedPath)
		if err != nil {
			return fmt.Errorf("seeding failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Seeding complete: %d new shops.\n", n)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all shops, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, dialect, err := openDB()
		if err != nil {
			return err
		}
		defer conn.Close()

		shops, err := repositories.NewSQLShopRepository(conn, dialect).ListShops(cmd.Context())
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tLAT\tLNG")
		for _, s := range shops {
			fmt.Fprintf(tw, "%s\t%s\t%.5f\t%.5f\n", s.ID, s.Name, s.Location.Lat, s.Location.Lon)
		}
		return tw.Flush()
	},
}

var nearbyCmd = &cobra.Command{
	Use:   "nearby",
	Short: "Rank shops by distance from a point",
	Example: `  dbtool nearby --lat -2.1316 --lng 106.1166 --limit 3`,
	RunE: func(cmd *cobra.Command, args []string) error {
		origin := domain.Coordinates{Lat: nearbyLat, Lon: nearbyLng}
		if !origin.Valid() {
			return fmt.Errorf("invalid origin %v", origin)
		}

		conn, dialect, err := openDB()
		if err != nil {
			return err
		}
		defer conn.Close()

		shops, err := repositories.NewSQLShopRepository(conn, dialect).ListShops(cmd.Context())
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "#\tID\tNAME\tDISTANCE")
		for i, rs := range services.FindNearby(origin, shops, nearbyLimit) {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1, rs.Shop.ID, rs.Shop.Name, services.FormatDistance(rs.DistanceKm))
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "postgres connection URL (default $DATABASE_URL)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db-path", "", "sqlite database file (default $DB_PATH or data/app.db)")

	seedCmd.Flags().StringVar(&seedPath, "seed-path", "", "seed JSON file (default $SEED_PATH or data/seeds/coffee_shops.json)")

	nearbyCmd.Flags().Float64Var(&nearbyLat, "lat", -2.1316, "origin latitude")
	nearbyCmd.Flags().Float64Var(&nearbyLng, "lng", 106.1166, "origin longitude")
	nearbyCmd.Flags().IntVar(&nearbyLimit, "limit", 5, "number of shops to show")

	rootCmd.AddCommand(initCmd, seedCmd, listCmd, nearbyCmd)
}

func openDB() (*sql.DB, db.Dialect, error) {
	if databaseURL != "" {
		conn, err := db.Open(databaseURL)
		return conn, db.DialectFor(databaseURL), err
	}
	conn, err := db.OpenSQLite(dbPath)
	return conn, db.SQLite, err
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
