// Package contract provides the ABI binding of the deal vault contract.
package contract

// Event names emitted by the deal vault contract.
const (
	EventDealCreated                = "DealCreated"
	EventDeposited                  = "Deposited"
	EventDealLocked                 = "DealLocked"
	EventRewardsClaimedFromProtocol = "RewardsClaimedFromProtocol"
	EventDealSettling               = "DealSettling"
	EventDealFinalized              = "DealFinalized"
	EventDealCancelled              = "DealCancelled"
)

// DefaultEvents are the events subscribed to when none are configured.
var DefaultEvents = []string{
	EventDealCreated,
	EventDeposited,
	EventDealLocked,
	EventRewardsClaimedFromProtocol,
	EventDealSettling,
	EventDealFinalized,
	EventDealCancelled,
}

const methodTotalDeposited = "totalDeposited"

// DealVaultABI is the ABI of the deal vault contract.
// This matches the Solidity contract interface:
//
//	function totalDeposited(uint256 dealId) external view returns (uint256);
//	event DealCreated(uint256 indexed dealId, address depositToken, uint256 minDeposit, uint256 maxDeposit,
//	    uint256 startTime, uint256 duration, uint256 expectedYield);
//	event Deposited(uint256 indexed dealId, address indexed user, uint256 indexed positionId, uint256 amount);
//	event DealLocked(uint256 indexed dealId, string channelId);
//	event RewardsClaimedFromProtocol(uint256 indexed dealId, uint256 totalRewards);
//	event DealSettling(uint256 indexed dealId);
//	event DealFinalized(uint256 indexed dealId);
//	event DealCancelled(uint256 indexed dealId);
const DealVaultABI = `[
	{
		"type": "function",
		"name": "totalDeposited",
		"inputs": [
			{"name": "dealId", "type": "uint256"}
		],
		"outputs": [
			{"name": "", "type": "uint256"}
		],
		"stateMutability": "view"
	},
	{
		"type": "event",
		"name": "DealCreated",
		"inputs": [
			{"name": "dealId", "type": "uint256", "indexed": true},
			{"name": "depositToken", "type": "address", "indexed": false},
			{"name": "minDeposit", "type": "uint256", "indexed": false},
			{"name": "maxDeposit", "type": "uint256", "indexed": false},
			{"name": "startTime", "type": "uint256", "indexed": false},
			{"name": "duration", "type": "uint256", "indexed": false},
			{"name": "expectedYield", "type": "uint256", "indexed": false}
		],
		"anonymous": false
	},
	{
		"type": "event",
		"name": "Deposited",
		"inputs": [
			{"name": "dealId", "type": "uint256", "indexed": true},
			{"name": "user", "type": "address", "indexed": true},
			{"name": "positionId", "type": "uint256", "indexed": true},
			{"name": "amount", "type": "uint256", "indexed": false}
		],
		"anonymous": false
	},
	{
		"type": "event",
		"name": "DealLocked",
		"inputs": [
			{"name": "dealId", "type": "uint256", "indexed": true},
			{"name": "channelId", "type": "string", "indexed": false}
		],
		"anonymous": false
	},
	{
		"type": "event",
		"name": "RewardsClaimedFromProtocol",
		"inputs": [
			{"name": "dealId", "type": "uint256", "indexed": true},
			{"name": "totalRewards", "type": "uint256", "indexed": false}
		],
		"anonymous": false
	},
	{
		"type": "event",
		"name": "DealSettling",
		"inputs": [
			{"name": "dealId", "type": "uint256", "indexed": true}
		],
		"anonymous": false
	},
	{
		"type": "event",
		"name": "DealFinalized",
		"inputs": [
			{"name": "dealId", "type": "uint256", "indexed": true}
		],
		"anonymous": false
	},
	{
		"type": "event",
		"name": "DealCancelled",
		"inputs": [
			{"name": "dealId", "type": "uint256", "indexed": true}
		],
		"anonymous": false
	}
]`
