package messagebus

import "time"

// MetricsCollector records analysis events crossing the bus, labelled by
// message type
type MetricsCollector interface {
	RecordNATSPublish(messageType string, success bool)
	RecordNATSReceive(messageType string, duration time.Duration, success bool)
}

type nopCollector struct{}

func (nopCollector) RecordNATSPublish(string, bool)                 {}
func (nopCollector) RecordNATSReceive(string, time.Duration, bool) {}
