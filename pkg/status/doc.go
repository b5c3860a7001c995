/*
Package status tracks per-file outcomes and owns file system writes for relocate.

	            +-------------+
	            |   Status    |
	            |  (Results)  |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +----+----+
	|   Files   |           | Summary |
	| (Storage) |           | (Tally) |
	+-----------+           +---------+

🎯 Purpose:
- Describes the outcome of processing one file (Result)
- Aggregates outcomes for a whole run (Summary)
- Reads and writes files on behalf of the rewrite operation
- Formats outcomes for the console

🔄 Flow:
1. operation reads a file through a FileManager
2. operation writes rewritten content through the same FileManager
3. each outcome becomes a Result
4. Results are recorded into a Summary and formatted for the user

⚡ Key Responsibilities:
- Atomic per-file writes that keep the original file mode
- A single I/O error kind (IOError, matched by ErrIO)
- Changed / unchanged / failed / skipped counts

🔍 Example:

	summary := status.NewSummary(false)
	summary.Record(status.Result{Path: "a.ts", Status: status.StatusModified})
	fmt.Println(status.NewDefaultFileFormatter().FormatSummary(summary))
*/
package status
