// Package service provides the view logic behind the dashboard commands.
//
// Services here are pure functions over domain records fetched from the
// backend:
//
//   - PredictionQuery: search, result filter and ordering of predictions
//   - FilterDoctors: doctor search by name or email
//   - HistoryStats / Overview: dashboard statistics
//   - WriteCSV / WritePDF: admin prediction exports
//
// Nothing in this package performs I/O beyond the writer it is handed.
package service
