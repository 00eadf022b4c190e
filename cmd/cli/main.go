package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "prestamos-cli",
		Short: "Prestamos CLI tool",
		Long:  `A command line interface for interacting with the Prestamos API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Prestamos API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(capitalCmd())
	rootCmd.AddCommand(deudoresCmd())
	rootCmd.AddCommand(reporteCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func capitalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "capital",
		Short: "Show current capital per funding source",
		Run: func(cmd *cobra.Command, args []string) {
			fetchAndPrint("/api/capital", nil)
		},
	}

	var inicio, fin string
	historyCmd := &cobra.Command{
		Use:   "historial",
		Short: "Show capital history",
		Run: func(cmd *cobra.Command, args []string) {
			query := url.Values{}
			if inicio != "" {
				query.Set("startDate", inicio)
			}
			if fin != "" {
				query.Set("endDate", fin)
			}
			fetchAndPrint("/api/capital/historial", query)
		},
	}
	historyCmd.Flags().StringVar(&inicio, "inicio", "", "Start date (YYYY-MM-DD)")
	historyCmd.Flags().StringVar(&fin, "fin", "", "End date (YYYY-MM-DD)")
	cmd.AddCommand(historyCmd)

	return cmd
}

func deudoresCmd() *cobra.Command {
	var fecha string
	cmd := &cobra.Command{
		Use:   "deudores",
		Short: "List loans due for collection",
		Run: func(cmd *cobra.Command, args []string) {
			query := url.Values{}
			if fecha != "" {
				query.Set("fecha", fecha)
			}
			listDebtors(query)
		},
	}
	cmd.Flags().StringVar(&fecha, "fecha", "", "Collection date (YYYY-MM-DD), defaults to today")
	return cmd
}

func reporteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reporte",
		Short: "Reports",
	}

	var fecha string
	diarioCmd := &cobra.Command{
		Use:   "diario",
		Short: "Daily report of new loans and payments",
		Run: func(cmd *cobra.Command, args []string) {
			query := url.Values{}
			if fecha != "" {
				query.Set("fecha", fecha)
			}
			fetchAndPrint("/api/prestamos/reporte/diario", query)
		},
	}
	diarioCmd.Flags().StringVar(&fecha, "fecha", "", "Report date (YYYY-MM-DD), defaults to today")

	var inicio, fin string
	gananciasCmd := &cobra.Command{
		Use:   "ganancias",
		Short: "Earnings over paid-off loans",
		Run: func(cmd *cobra.Command, args []string) {
			query := url.Values{}
			if inicio != "" {
				query.Set("fechaInicio", inicio)
			}
			if fin != "" {
				query.Set("fechaFin", fin)
			}
			fetchAndPrint("/api/prestamos/reporte/ganancias", query)
		},
	}
	gananciasCmd.Flags().StringVar(&inicio, "inicio", "", "Start date (YYYY-MM-DD)")
	gananciasCmd.Flags().StringVar(&fin, "fin", "", "End date (YYYY-MM-DD)")

	cmd.AddCommand(diarioCmd)
	cmd.AddCommand(gananciasCmd)
	return cmd
}

func listDebtors(query url.Values) {
	body := fetch("/api/prestamos/debe", query)

	var loans []struct {
		Cliente   string `json:"cliente"`
		Telefono  string `json:"cliente_telefono"`
		Saldo     string `json:"saldo_restante"`
		TipoPlazo string `json:"tipo_plazo"`
	}
	if err := json.Unmarshal(body, &loans); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	if len(loans) == 0 {
		fmt.Println("No hay deudas para cobrar.")
		return
	}

	fmt.Printf("%-22s %-15s %-12s %s\n", "CLIENTE", "TELEFONO", "SALDO", "PLAZO")
	for _, loan := range loans {
		fmt.Printf("%-22s %-15s %-12s %s\n",
			truncate(loan.Cliente, 20), loan.Telefono, loan.Saldo, loan.TipoPlazo)
	}
}

func fetchAndPrint(path string, query url.Values) {
	body := fetch(path, query)

	var result any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	printJSON(result)
}

func fetch(path string, query url.Values) []byte {
	target := baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(target)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	return body
}

func printJSON(v any) {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("Failed to encode response: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(encoded))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
