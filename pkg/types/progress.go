package types

// ProgressUpdate represents a snapshot of transfer progress reported by the server
type ProgressUpdate struct {
	Percent       int     // Server-reported completion percentage (0-100)
	Filename      string  // Name of the file being transferred
	BytesReceived int64   // Bytes the server has received so far
	BytesTotal    int64   // Total expected size in bytes
	Rate          float64 // Estimated throughput in bytes per second
}
