/*
Package operation implements the rewrite of a source tree.

	+-------------+
	|   Runner    |
	|   (Walk)    |
	+------+------+
	       |
	+------+------+
	|  Processor  |
	| (Transform) |
	+------+------+

🎯 Purpose:
- Walks the root and picks files with a tree.Selector
- Rewrites each selected file with a text.RuleSet
- Tallies outcomes into a status.Summary and hands them to a Reporter

🔄 Flow:
1. Runner checks the root and takes the per-root lock
2. tree.Walk yields paths, unselected ones are recorded as skipped
3. Processor reads, transforms and conditionally writes one file
4. Each status.Result is recorded and reported
5. The summary is reported once the walk is exhausted

⚡ Key Responsibilities:
- A failing file never stops the run, its IOError lands in the Result
- Unchanged files are never written
- Sequential by default, bounded parallelism with Options.Jobs

🔍 Example:

	proc, _ := operation.NewProcessor(operation.ProcessorOptions{Rules: rules})
	runner, _ := operation.NewRunner(operation.Options{
		Root:      "src",
		Selector:  selector,
		Processor: proc,
		Reporter:  log.New(os.Stdout, false),
	})
	summary, err := runner.Run(ctx)
*/
package operation
