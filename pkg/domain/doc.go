// Package domain contains the core entities of the moderation platform:
// users, websites, webpages, reports, tags and the principal/role model. The
// types here carry business meaning only and are free of persistence and
// transport concerns so every other package can share them.
package domain
