// Package msgs provides L1 protocol support and all message schemas.
//
// Every packet is a Typed envelope. The type id carries the kind
// (command or event), the group and whether a command is a reply.
// Swerve drive messages live in GroupSwerve, controller specific
// extensions start at GroupCustom.
package msgs
