// Command hdlgen compiles a registered example Computer's RTL
// description into synthesizable VHDL-93: a micro-coded control FSM
// and the structural top entity that wires it to the datapath.
package main

import (
	"fmt"
	"os"
	"runtime"
	"sort"
	"sync"

	"github.com/oisee/hdlgen/internal/examples"
	"github.com/oisee/hdlgen/pkg/assemble"
	"github.com/oisee/hdlgen/pkg/hdlerr"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "hdlgen",
		Short: "Hardware description generator — RTL-to-VHDL compiler for accumulator-style computers",
	}

	var outRoot string
	var verbose bool
	var dryRun bool

	generateCmd := &cobra.Command{
		Use:   "generate <computer>",
		Short: "Generate control.vhdl and main.vhdl for a registered computer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := examples.Get(args[0])
			if err != nil {
				return err
			}

			if verbose {
				fmt.Printf("Generating %q (%d instructions, address width %d)\n", c.Name, len(c.Instructions), c.AddressWidth)
			}

			result, err := assemble.Generate(c, assemble.GenerateOptions{OutputRoot: outRoot, DryRun: dryRun})
			if err != nil {
				return formatError(err)
			}

			fmt.Printf("  Opcode width: %d\n", result.OpcodeLength)
			fmt.Printf("  Control signals: %d\n", len(result.ControlSignals))
			if dryRun {
				fmt.Printf("Dry run: would write %s\n", result.ControlPath)
				fmt.Printf("Dry run: would write %s\n", result.MainPath)
			} else {
				fmt.Printf("Wrote %s\n", result.ControlPath)
				fmt.Printf("Wrote %s\n", result.MainPath)
			}
			return nil
		},
	}
	generateCmd.Flags().StringVar(&outRoot, "out", ".", "Output root directory")
	generateCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	generateCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Compute and print output without writing files")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List registered example computers",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range examples.List() {
				fmt.Println(name)
			}
			return nil
		},
	}

	var validateAll bool
	var workers int

	validateCmd := &cobra.Command{
		Use:   "validate [computer]",
		Short: "Validate a registered computer's DSL program without writing files",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if validateAll {
				return validateAllComputers(workers, verbose)
			}
			if len(args) != 1 {
				return fmt.Errorf("validate: exactly one computer name is required unless --all is set")
			}
			return validateOne(args[0], verbose)
		},
	}
	validateCmd.Flags().BoolVar(&validateAll, "all", false, "Validate every registered computer concurrently")
	validateCmd.Flags().IntVar(&workers, "workers", 0, "Number of parallel validators with --all (0 = NumCPU)")
	validateCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(generateCmd, listCmd, validateCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func validateOne(name string, verbose bool) error {
	c, err := examples.Get(name)
	if err != nil {
		return err
	}
	if verbose {
		fmt.Printf("Validating %q (%d instructions, address width %d)\n", c.Name, len(c.Instructions), c.AddressWidth)
	}
	if _, err := assemble.Generate(c, assemble.GenerateOptions{DryRun: true}); err != nil {
		return formatError(err)
	}
	fmt.Printf("%s: ok\n", name)
	return nil
}

// validateAllComputers validates every registered computer using a
// small bounded worker pool, the same shape as the teacher's
// pkg/search.WorkerPool: a fixed number of goroutines draining a
// shared work queue, synchronized with a WaitGroup.
func validateAllComputers(numWorkers int, verbose bool) error {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	names := examples.List()

	jobs := make(chan string, len(names))
	for _, n := range names {
		jobs <- n
	}
	close(jobs)

	var mu sync.Mutex
	var failures []string
	var wg sync.WaitGroup

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range jobs {
				if err := validateOne(name, verbose); err != nil {
					mu.Lock()
					failures = append(failures, fmt.Sprintf("%s: %v", name, err))
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	if len(failures) == 0 {
		return nil
	}
	sort.Strings(failures)
	for _, f := range failures {
		fmt.Fprintln(os.Stderr, f)
	}
	return fmt.Errorf("%d computer(s) failed validation", len(failures))
}

func formatError(err error) error {
	if multi, ok := err.(*hdlerr.MultiError); ok {
		for _, de := range multi.Errs {
			fmt.Fprintln(os.Stderr, de.Error())
		}
		return fmt.Errorf("%d validation error(s)", len(multi.Errs))
	}
	return err
}
