// Package scholarly harvests ranked bibliographic records from a paginated
// scholarly search engine. Pages are retrieved through a rotating pool of
// unreliable proxies, records are extracted with per-field fallbacks, and
// the accumulated results are ranked by citation count.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, http/, sqlite/).
package scholarly
