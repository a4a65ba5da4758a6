package logcolors

// ANSI color codes for log prefixes
const (
	Reset  = "\033[0m"
	Green  = "\033[32m"
	Blue   = "\033[34m"
	Purple = "\033[35m"
	Cyan   = "\033[36m"

	// Bright variants for more color variety
	BrightGreen = "\033[92m"
	BrightCyan  = "\033[96m"
)

// Parser log prefixes
const (
	LogLRCParser = Green + "[Parser:LRC]" + Reset
	LogYRCParser = BrightGreen + "[Parser:YRC]" + Reset
	LogTranslate = Cyan + "[Translate]" + Reset
	LogDetect    = BrightCyan + "[Detect]" + Reset
)

// Cache-related log prefixes
const (
	LogCacheInit  = Blue + "[Cache:Init]" + Reset
	LogCache      = Blue + "[Cache]" + Reset
	LogCacheClear = Blue + "[Cache:Clear]" + Reset
	LogCacheParse = Green + "[Cache:Parse]" + Reset
)

// Rate limiting log prefixes
const (
	LogRateLimit = Purple + "[RateLimit]" + Reset
)

// Server/Init log prefixes
const (
	LogServer = Green + "[Server]" + Reset
	LogConfig = Cyan + "[Config]" + Reset
	LogStats  = Blue + "[Stats]" + Reset
)
