// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - GraphStore: Reads candidate objects from the code property graph
//   - FrameworkStore: Framework catalog persistence
//   - WatermarkStore: How far the oracle delta has been consumed
//   - SchedulerStore: Background task state and run history
//   - CorpusSource: Labelled training samples per language
//   - ModelTrainer: Trains and decodes classifier models
//   - ModelStore: Trained model artifact persistence
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - OracleClient: Remote framework oracle. Without it, detection is local only.
//   - ReportWriter: Run report output. Without it, reports are only returned.
//   - Notifier: Run notifications (mail). Without it, nobody is notified.
//   - MetricsRecorder: Prometheus metrics. Without it, nothing is recorded.
//   - CorpusWatcher: Corpus change notifications for continuous retraining.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
