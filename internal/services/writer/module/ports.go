package module

import dom "quill/internal/services/writer/domain"

// Ports holds the ports exposed by the writer module
type Ports struct {
	Queue  dom.QueuePort
	Runner dom.RunnerPort
}
