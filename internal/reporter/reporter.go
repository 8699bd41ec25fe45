package reporter

// Reporter defines the interface for render progress reporting.
type Reporter interface {
	Hardware(summary HardwareSummary)
	JobStarted(summary JobSummary)
	StageProgress(update StageProgress)
	DecimationResult(summary DecimationSummary)
	RenderConfig(summary RenderConfigSummary)
	ProcessingStarted(totalFrames uint64)
	ProcessingProgress(progress ProgressSnapshot)
	JobComplete(summary JobOutcome)
	Warning(message string)
	Error(err ReporterError)
	OperationComplete(message string)
	BatchStarted(info BatchStartInfo)
	JobProgress(context JobProgressContext)
	BatchComplete(summary BatchSummary)
	Verbose(message string)
}

// NullReporter is a no-op reporter that discards all updates.
type NullReporter struct{}

func (NullReporter) Hardware(HardwareSummary)             {}
func (NullReporter) JobStarted(JobSummary)                {}
func (NullReporter) StageProgress(StageProgress)          {}
func (NullReporter) DecimationResult(DecimationSummary)   {}
func (NullReporter) RenderConfig(RenderConfigSummary)     {}
func (NullReporter) ProcessingStarted(uint64)             {}
func (NullReporter) ProcessingProgress(ProgressSnapshot)  {}
func (NullReporter) JobComplete(JobOutcome)               {}
func (NullReporter) Warning(string)                       {}
func (NullReporter) Error(ReporterError)                  {}
func (NullReporter) OperationComplete(string)             {}
func (NullReporter) BatchStarted(BatchStartInfo)          {}
func (NullReporter) JobProgress(JobProgressContext)       {}
func (NullReporter) BatchComplete(BatchSummary)           {}
func (NullReporter) Verbose(string)                       {}
