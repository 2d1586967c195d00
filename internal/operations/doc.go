// Package operations orchestrates the connectivity ETL pipeline as a
// sequence of tracked steps.
//
// A Runner executes the steps in phases: load, the two normalizations
// (concurrent), merge, export. Each step records its lifecycle in a
// StepState inside the shared OperationState, which also carries the
// frames from one step to the next. The first failing step aborts the
// run; there is no retry and no partial-result recovery.
//
// Example usage:
//
//	runner := operations.NewRunner(cfg, logger)
//	summary, err := runner.Run(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("merged %d rows\n", summary.MergedShape.Rows)
package operations
