// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package questionnaire drives one respondent through a question set.

A Definition is loaded from YAML (or the embedded default). A Session moves
welcome → questions → done, keeping its own tally. The Submitter posts the
finished payload and falls back to a local store when the server cannot
be reached, so every session ends in a terminal Outcome.
*/
package questionnaire
