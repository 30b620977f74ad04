// Package logger is a thin zerolog wrapper. Components receive a *Logger by
// injection, tag it with WithComponent, and pass structured fields as maps
// built with Fields.
package logger
