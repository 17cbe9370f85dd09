// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the command lifecycle (one-shot commands,
// watch mode, and the interactive console), decoupled from any specific
// entrypoint like a CLI.
package app
