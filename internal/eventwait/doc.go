// SPDX-License-Identifier: GPL-2.0-or-later

/*
Package eventwait backs the media-sharing protocol's `GET /update` endpoint
(spec §6): a client supplies the server revision it last saw and the
handler blocks until a newer revision exists, then replies with the
current one. The catalog has exactly one revision counter (unlike the
teacher's multi-topic sync/stats/live-activity hub), so this package
strips the teacher's websocket hub down to a single monotonic counter plus
a long-poll waiter list, and layers an optional websocket push path on top
for clients that would rather hold one connection open than repeatedly
long-poll.
*/
package eventwait
