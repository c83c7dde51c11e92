/*
Package zeddns updates ZoneEdit Dynamic DNS records.

Usage will always start with [zeddns.New],
which returns a *Client wired with a [Provider] for the update endpoint
and a [Resolver] for public IP detection.
Additional client configuration options are listed in the docs for New.
*/
package zeddns
