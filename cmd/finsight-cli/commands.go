package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"finsight/internal/assistant"
	"finsight/internal/bank"
	"finsight/internal/core"
	"finsight/internal/log"
	"finsight/internal/storage"
)

var cfgFile string

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default finsight.toml in the working directory)")
	rootCmd.PersistentFlags().String("fixture", "./data/banking.json", "path to the banking fixture")
	rootCmd.PersistentFlags().String("db", "", "SQLite database path (reads the fixture directly when empty)")
	rootCmd.PersistentFlags().String("window", "week", "aggregation window: week or month")
	rootCmd.PersistentFlags().String("ref", "", "reference date YYYY-MM-DD (default today)")

	_ = viper.BindPFlag("fixture", rootCmd.PersistentFlags().Lookup("fixture"))
	_ = viper.BindPFlag("db", rootCmd.PersistentFlags().Lookup("db"))
	_ = viper.BindPFlag("window", rootCmd.PersistentFlags().Lookup("window"))
	_ = viper.BindPFlag("ref", rootCmd.PersistentFlags().Lookup("ref"))

	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(chartCmd)
	rootCmd.AddCommand(chatCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("finsight")
		viper.SetConfigType("toml")
		viper.AddConfigPath(".")
	}
	viper.SetEnvPrefix("FINSIGHT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("api.url", "https://api.openai.com/v1/chat/completions")
	viper.SetDefault("api.model", "gpt-3.5-turbo")
	viper.SetDefault("api.max_tokens", 500)
	viper.SetDefault("api.temperature", 0.7)
	viper.SetDefault("api.timeout", 30*time.Second)

	_ = viper.ReadInConfig()
}

func windowAndRef() (core.Window, core.Date, error) {
	window, err := core.ParseWindow(viper.GetString("window"))
	if err != nil {
		return "", core.Date{}, fmt.Errorf("invalid window %q: use week or month", viper.GetString("window"))
	}
	ref := core.DateOf(time.Now())
	if v := strings.TrimSpace(viper.GetString("ref")); v != "" {
		if ref, err = core.ParseDate(v); err != nil {
			return "", core.Date{}, fmt.Errorf("invalid ref date %q: use YYYY-MM-DD", v)
		}
	}
	return window, ref, nil
}

func loadStatement(ctx context.Context) (core.Statement, error) {
	if db := viper.GetString("db"); db != "" {
		repo, err := storage.NewSQLiteRepository(db, log.New(log.DefaultConfig()))
		if err != nil {
			return core.Statement{}, err
		}
		defer repo.Close()
		return repo.ReadStatement(ctx)
	}
	return bank.LoadStatementFile(viper.GetString("fixture"))
}

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load the banking fixture into the SQLite store",
	RunE: func(cmd *cobra.Command, args []string) error {
		db := viper.GetString("db")
		if db == "" {
			return fmt.Errorf("--db is required for ingest")
		}

		stmt, err := bank.LoadStatementFile(viper.GetString("fixture"))
		if err != nil {
			return fmt.Errorf("load fixture: %w", err)
		}

		repo, err := storage.NewSQLiteRepository(db, log.New(log.DefaultConfig()))
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer repo.Close()

		if err := repo.ReplaceStatement(cmd.Context(), stmt); err != nil {
			return fmt.Errorf("store statement: %w", err)
		}

		fmt.Printf("Ingested %d transactions (%s)\n", len(stmt.Transactions), stmt.Period.Label())
		return nil
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the financial summary for a window",
	RunE: func(cmd *cobra.Command, args []string) error {
		window, ref, err := windowAndRef()
		if err != nil {
			return err
		}
		stmt, err := loadStatement(cmd.Context())
		if err != nil {
			return err
		}

		s := core.BuildSummary(stmt, window, ref)

		fmt.Printf("Period:          %s (%s, ref %s)\n", s.PeriodLabel, s.Window, s.ReferenceDate)
		fmt.Printf("Current balance: %s\n", s.CurrentBalance.Format(s.Currency))
		fmt.Printf("Opening balance: %s\n", s.OpeningBalance.Format(s.Currency))
		fmt.Printf("Net change:      %s\n", s.NetChange.Format(s.Currency))
		fmt.Printf("Total income:    %s\n", s.TotalIncome.Format(s.Currency))
		fmt.Printf("Total spending:  %s\n", s.TotalSpending.Format(s.Currency))
		fmt.Printf("Daily average:   %s\n", s.DailySpendAvg.Format(s.Currency))

		if len(s.ByCategory) > 0 {
			fmt.Println("\nSpending by category:")
			for _, c := range s.ByCategory {
				fmt.Printf("  %-20s %s\n", c.Key, c.Amount.Format(s.Currency))
			}
		}
		if len(s.TopMerchants) > 0 {
			fmt.Println("\nTop merchants:")
			for i, m := range s.TopMerchants {
				fmt.Printf("  %d. %-18s %s\n", i+1, m.Key, m.Amount.Format(s.Currency))
			}
		}
		return nil
	},
}

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Print the balance-trend series for a window",
	RunE: func(cmd *cobra.Command, args []string) error {
		window, ref, err := windowAndRef()
		if err != nil {
			return err
		}
		stmt, err := loadStatement(cmd.Context())
		if err != nil {
			return err
		}

		series := core.BalanceSeries(stmt.Transactions, window, stmt.Period.OpeningBalance, ref)
		currency := stmt.Account.Balances.ISOCurrencyCode

		for i, label := range series.Labels {
			fmt.Printf("%4s  %s\n", label, series.Balances[i].Format(currency))
		}
		return nil
	},
}

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Ask the assistant a one-shot question about your finances",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		window, ref, err := windowAndRef()
		if err != nil {
			return err
		}
		stmt, err := loadStatement(cmd.Context())
		if err != nil {
			return err
		}

		summary := core.BuildSummary(stmt, window, ref)
		prompt := assistant.BuildSystemPrompt(summary)

		client := assistant.NewClient(assistant.ClientConfig{
			APIURL:      viper.GetString("api.url"),
			APIKey:      viper.GetString("api.key"),
			Model:       viper.GetString("api.model"),
			MaxTokens:   viper.GetInt("api.max_tokens"),
			Temperature: viper.GetFloat64("api.temperature"),
			Timeout:     viper.GetDuration("api.timeout"),
		})

		reply, err := client.Send(cmd.Context(), prompt, nil, strings.Join(args, " "))
		if err != nil {
			fmt.Println(assistant.FallbackReply)
			return nil
		}
		fmt.Println(reply)
		return nil
	},
}
