package lib

// Banner the banner
const Banner = `
                            _     
   ___  _ __  _   _  _ __  | |__  
  / __|| '__|| | | || '_ \ | '_ \ 
 | (__ | |   | |_| || | | || |_) |
  \___||_|    \__,_||_| |_||_.__/ 
`

var (
	// Version is the current version.
	Version = "(untracked)"
	// CommitSHA is the commit sha.
	CommitSHA = "(unknown)"
)
