// Command wasm2z80 drives pkg/compiler from the command line: compile a
// single fixture module to assembly text, or batch-compile many fixtures
// concurrently and report per-module results.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/z80toolchain/wasm2z80/pkg/batchcompile"
	"github.com/z80toolchain/wasm2z80/pkg/compiler"
	"github.com/z80toolchain/wasm2z80/pkg/fixture"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "wasm2z80",
		Short: "Compile a stack-machine module to symbolic Z80 assembly",
	}

	var output string

	compileCmd := &cobra.Command{
		Use:   "compile [module.json]",
		Short: "Compile one JSON fixture module to assembly",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			mod, err := fixture.Decode(f)
			if err != nil {
				return fmt.Errorf("decode %s: %w", args[0], err)
			}

			asm, err := compiler.Module(mod)
			if err != nil {
				return fmt.Errorf("compile %s: %w", args[0], err)
			}

			if output == "" {
				fmt.Print(asm)
				return nil
			}
			out, err := os.Create(output)
			if err != nil {
				return err
			}
			defer out.Close()
			if _, err := out.WriteString(asm); err != nil {
				return err
			}
			fmt.Printf("Written to %s\n", output)
			return nil
		},
	}
	compileCmd.Flags().StringVarP(&output, "output", "o", "", "Output assembly file path (default: stdout)")

	var numWorkers int
	var outDir string

	batchCmd := &cobra.Command{
		Use:   "batch [module.json...]",
		Short: "Compile many JSON fixture modules concurrently",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks := make([]batchcompile.Task, 0, len(args))
			for _, path := range args {
				f, err := os.Open(path)
				if err != nil {
					return err
				}
				mod, err := fixture.Decode(f)
				f.Close()
				if err != nil {
					return fmt.Errorf("decode %s: %w", path, err)
				}
				tasks = append(tasks, batchcompile.Task{Name: path, Module: mod})
			}

			wp := batchcompile.NewWorkerPool(numWorkers)
			results := wp.RunTasks(tasks)

			var failures int
			for _, r := range results {
				if r.Err != nil {
					failures++
					fmt.Printf("FAIL  %s: %v\n", r.Name, r.Err)
					continue
				}
				if outDir == "" {
					fmt.Printf("OK    %s\n", r.Name)
					continue
				}
				outPath := outDir + "/" + baseName(r.Name) + ".asm"
				if err := os.WriteFile(outPath, []byte(r.Output), 0o644); err != nil {
					return fmt.Errorf("write %s: %w", outPath, err)
				}
				fmt.Printf("OK    %s -> %s\n", r.Name, outPath)
			}

			compiled, failed := wp.Stats()
			fmt.Printf("\n%d compiled, %d failed\n", compiled, failed)
			if failures > 0 {
				return fmt.Errorf("%d module(s) failed to compile", failures)
			}
			return nil
		},
	}
	batchCmd.Flags().IntVar(&numWorkers, "workers", 0, "Number of workers (0 = NumCPU)")
	batchCmd.Flags().StringVar(&outDir, "out-dir", "", "Directory to write one .asm file per module (default: summary only)")

	rootCmd.AddCommand(compileCmd, batchCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// baseName strips a leading directory path and trailing ".json" extension,
// without pulling in path/filepath for a single-purpose transform.
func baseName(path string) string {
	start := 0
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			start = i + 1
			break
		}
	}
	name := path[start:]
	const ext = ".json"
	if len(name) > len(ext) && name[len(name)-len(ext):] == ext {
		name = name[:len(name)-len(ext)]
	}
	return name
}
