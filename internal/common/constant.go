package common

const (
	// MetadataKeyDeviceID is the metadata key holding this device's stable id.
	MetadataKeyDeviceID = "device_id"

	// MetadataKeyLastSyncPrefix is the metadata key prefix for per-table
	// last-successful-sync checkpoints; the table name is appended.
	MetadataKeyLastSyncPrefix = "last_sync:"
)
