// Package logger wraps zap for the guard:
//   - a global sugared logger with console or JSON encoding,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level parsing and runtime level changes,
//   - convenience functions (Infof, ErrorKV, etc.).
//
// Every component receives a context and logs through the logger stored in it,
// so tick-scoped fields such as the device id follow the call chain.
package logger
