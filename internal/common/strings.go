package common

// UnknownStr is the display name shared by enum String methods for out-of-range values.
const UnknownStr = "unknown"
