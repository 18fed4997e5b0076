package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/Another0Noob/attendance-recon/internal/schedule"
	"github.com/spf13/cobra"
)

var parseJSON bool

var parseCmd = &cobra.Command{
	Use:     "parse-schedule [text]",
	Short:   "Extract class details from a schedule line",
	Example: `  attendance parse-schedule "Senin Andi 08.00 - 10.30 Basis Data IF23 Dr. Rina Pertemuan 1 & 2"`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runParse(strings.Join(args, " "))
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().BoolVar(&parseJSON, "json", false, "print the result as JSON")
}

func runParse(text string) error {
	info := schedule.Parse(text)
	if parseJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	fmt.Printf("Day:         %s\n", info.Day)
	fmt.Printf("Time:        %s\n", info.TimeRange)
	fmt.Printf("Facilitator: %s\n", info.Facilitator)
	fmt.Printf("Sessions:    %s %v\n", info.Sessions, info.SessionSet().Sorted())
	fmt.Printf("Class code:  %s\n", info.ClassCode)
	fmt.Printf("Course:      %s\n", info.CourseTitle)
	fmt.Printf("Instructor:  %s\n", info.Instructor)
	fmt.Printf("Class type:  %s\n", info.ClassType())
	return nil
}
