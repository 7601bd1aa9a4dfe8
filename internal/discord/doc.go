// Package discord connects the preview pipeline to Discord.
//
// The bot reacts to two entry points: messages whose attachments carry a
// renderable model extension, and the "Preview 3D Model" message context
// command. Both paths hand the eligible attachments to the batch supervisor
// and deliver finished animations back to the originating channel. The
// adapter owns all platform concerns so the pipeline never sees Discord
// types.
package discord
