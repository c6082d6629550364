// Package media classifies enumerated files into videos and subtitles.
//
// Classification is by extension only. The sets are case-insensitive and
// come from configuration, so a library that keeps subtitles as .ass or
// videos as .m2ts is handled by editing the config rather than the code.
package media
