// Package exporter writes derived series, trend lines and regional rankings
// to CSV and XLSX report files. It consumes the pipeline's table outputs and
// never reaches back into the pipeline.
package exporter
