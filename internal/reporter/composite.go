package reporter

// CompositeReporter fans out events to multiple reporters.
type CompositeReporter struct {
	reporters []Reporter
}

// NewCompositeReporter creates a composite reporter.
func NewCompositeReporter(reporters ...Reporter) *CompositeReporter {
	return &CompositeReporter{reporters: reporters}
}

func (c *CompositeReporter) Hardware(summary HardwareSummary) {
	for _, r := range c.reporters {
		r.Hardware(summary)
	}
}

func (c *CompositeReporter) JobStarted(summary JobSummary) {
	for _, r := range c.reporters {
		r.JobStarted(summary)
	}
}

func (c *CompositeReporter) StageProgress(update StageProgress) {
	for _, r := range c.reporters {
		r.StageProgress(update)
	}
}

func (c *CompositeReporter) DecimationResult(summary DecimationSummary) {
	for _, r := range c.reporters {
		r.DecimationResult(summary)
	}
}

func (c *CompositeReporter) RenderConfig(summary RenderConfigSummary) {
	for _, r := range c.reporters {
		r.RenderConfig(summary)
	}
}

func (c *CompositeReporter) ProcessingStarted(totalFrames uint64) {
	for _, r := range c.reporters {
		r.ProcessingStarted(totalFrames)
	}
}

func (c *CompositeReporter) ProcessingProgress(progress ProgressSnapshot) {
	for _, r := range c.reporters {
		r.ProcessingProgress(progress)
	}
}

func (c *CompositeReporter) JobComplete(summary JobOutcome) {
	for _, r := range c.reporters {
		r.JobComplete(summary)
	}
}

func (c *CompositeReporter) Warning(message string) {
	for _, r := range c.reporters {
		r.Warning(message)
	}
}

func (c *CompositeReporter) Error(err ReporterError) {
	for _, r := range c.reporters {
		r.Error(err)
	}
}

func (c *CompositeReporter) OperationComplete(message string) {
	for _, r := range c.reporters {
		r.OperationComplete(message)
	}
}

func (c *CompositeReporter) BatchStarted(info BatchStartInfo) {
	for _, r := range c.reporters {
		r.BatchStarted(info)
	}
}

func (c *CompositeReporter) JobProgress(context JobProgressContext) {
	for _, r := range c.reporters {
		r.JobProgress(context)
	}
}

func (c *CompositeReporter) BatchComplete(summary BatchSummary) {
	for _, r := range c.reporters {
		r.BatchComplete(summary)
	}
}

func (c *CompositeReporter) Verbose(message string) {
	for _, r := range c.reporters {
		r.Verbose(message)
	}
}
