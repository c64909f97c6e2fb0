// Package app wires configuration, logging, telemetry and the report pipeline
// together for the vacancy-report command.
//
// # Pipeline
//
// A run goes through these steps:
//
//	1. Validate the run options and the input file
//	2. Parse the CSV into vacancies (span "report.parse")
//	3. Assemble the six report series (span "report.assemble")
//	4. Print the summary to stdout
//	5. Check every output destination
//	6. Write each requested format (span "report.export")
//
// Each stage records pipeline_stage_duration_seconds. Parsing records the row
// counters and every written file increments reports_written_total.
//
// # Usage
//
//	application, err := app.NewApplication(os.Stdout)
//	if err != nil {
//	    return err
//	}
//	defer application.Stop(ctx)
//	_, err = application.Run(ctx, app.Options{InputFile: "vacancies.csv", Profession: "Go"})
//
// # Error Handling
//
// Errors are returned to the caller; the package never exits the process.
package app
