// Package riskrange builds daily, price-annotated trading-range series for a
// portfolio of symbols from independently published range reports.
//
// Three raw tables feed the pipeline (produced by external report parsers):
//   - a weekly trend-range report, one row per held symbol (authoritative for
//     what is currently held),
//   - a daily rank list,
//   - a daily trading-range feed published for a set of reference symbols.
//
// The core functionalities include:
//   - Price Cache: a durable (date, symbol) -> close price table that refuses
//     to persist a tentative intraday price while the trading session is
//     still open, and re-fetches misses through an interchangeable Fetcher.
//   - Proxy Translation: converting a trading range expressed in a reference
//     symbol's price coordinates into the equivalent range for an
//     economically related portfolio symbol, with a low/high swap for
//     inversely correlated pairs.
//   - Merging: one record per held symbol joining trend range, rank, proxy
//     mapping and the latest reference range.
//   - Daily Series: forward filling the weekly cadence onto a daily axis and
//     joining in daily close prices for export.
//
// This package serves as the foundational logic for the `rrs` command-line
// tool.
package riskrange
